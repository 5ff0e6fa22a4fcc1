// Command tact manages and plays a library of haptic cues.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tact:", err)
		os.Exit(1)
	}
}
