// (c) Copyright Enthought, Inc. 2013

// Command erinyes watches the memory usage of live processes from the
// command line, using the same tolerance model as the test-suite checks.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/enthought/erinyes"
	"github.com/enthought/erinyes/process"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erinyes:", err)

		var v *erinyes.ViolationError
		switch {
		case errors.Is(err, process.ErrNotRunning):
			os.Exit(2)
		case errors.As(err, &v):
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
