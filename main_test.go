// (c) Copyright Enthought, Inc. 2013

package erinyes_test

import (
	"os"
	"testing"

	"github.com/enthought/erinyes"
)

// Operations exercised by the isolated checks. They must be registered
// before TestMain runs so that worker re-invocations of this binary can
// resolve them by name.
var leakedByWorker [][]byte

func init() {
	erinyes.Register("noop", func() {
		buf := make([]byte, 1<<20)
		for i := range buf {
			buf[i] = byte(i)
		}
	})

	erinyes.Register("leaky", func() {
		leakedByWorker = append(leakedByWorker, make([]byte, 16<<20))
	})

	erinyes.Register("always-panics", func() {
		panic("boom")
	})

	// Exits without delivering an outcome, standing in for a worker
	// killed by the operating system.
	erinyes.Register("silent-exit", func() {
		os.Exit(0)
	})
}

func TestMain(m *testing.M) {
	erinyes.Main(m)
}
