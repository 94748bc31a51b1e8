package lib

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Bail logs the error and exits with a nonzero code.
func Bail(err error) {
	log.WithError(err).Error("Terminating...")
	os.Exit(1)
}
