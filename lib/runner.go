package lib

import (
	"fmt"
	"runtime"
)

// PrintVersion prints the app version and Go runtime to STDOUT.
func PrintVersion(appName string, version string) {
	fmt.Printf("%v v%v %v\n", appName, version, runtime.Version())
}
