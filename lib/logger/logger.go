package logger

import (
	"os"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// Config stores the logger output settings.
type Config struct {
	Output   string `toml:"output"`
	Severity string `toml:"severity"`
}

// Init sets up the initial logger formatting before any configuration is loaded.
func Init() {
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	log.SetOutput(os.Stderr)
}

// Setup applies the logger configuration to the standard logger.
func Setup(conf Config) error {
	switch conf.Output {
	case "stderr", "error", "2":
		log.SetOutput(os.Stderr)
	case "", "stdout", "out", "1":
		log.SetOutput(os.Stdout)
	default:
		// assume this is a path to the log file
		file, err := os.OpenFile(conf.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return trace.ConvertSystemError(err)
		}
		log.SetOutput(file)
	}

	severity := conf.Severity
	if severity == "" {
		severity = "info"
	}
	level, err := log.ParseLevel(severity)
	if err != nil {
		return trace.BadParameter("unknown log severity %q", conf.Severity)
	}
	log.SetLevel(level)

	return nil
}

// Standard returns the standard logger.
func Standard() log.FieldLogger {
	return log.StandardLogger()
}
