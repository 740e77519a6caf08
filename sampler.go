// (c) Copyright Enthought, Inc. 2013

package erinyes

import (
	"runtime/debug"

	"github.com/enthought/erinyes/internal/pprofutil"
	"github.com/enthought/erinyes/process"
)

// Sampler obtains a point-in-time memory usage measurement, in bytes. The
// value is a float so that downstream ratio arithmetic does not truncate.
// Sampling is a read-only query with no side effects.
type Sampler interface {
	Sample() (float64, error)
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func() (float64, error)

// Sample calls f.
func (f SamplerFunc) Sample() (float64, error) {
	return f()
}

// RSSSampler measures the resident set size of the current process. This
// is what the operating system actually holds for the process, including
// non-Go allocations, and is the default on platforms with a proc
// filesystem.
func RSSSampler() Sampler {
	rdr := process.Stats()

	return SamplerFunc(func() (float64, error) {
		stats, err := rdr.Memory()
		if err != nil {
			return 0, err
		}

		return float64(stats.Rss), nil
	})
}

// PIDSampler measures the resident set size of an arbitrary process. The
// sample fails with process.ErrNotRunning once the process has exited;
// callers must not sample a process they know to be gone.
func PIDSampler(pid int) Sampler {
	rdr := process.StatsFor(pid)

	return SamplerFunc(func() (float64, error) {
		stats, err := rdr.Memory()
		if err != nil {
			return 0, err
		}

		return float64(stats.Rss), nil
	})
}

// HeapSampler measures the bytes retained by live Go heap objects, taken
// from the runtime heap profile. It is blind to memory held outside the
// Go heap but is immune to the allocator's reluctance to return freed
// pages to the operating system, which makes RSS a noisy signal on some
// platforms. It is the default where proc stats are unsupported.
func HeapSampler() Sampler {
	return SamplerFunc(pprofutil.HeapInUse)
}

// collect forces a full garbage collection pass and returns freed memory
// to the operating system, so that a following sample reflects retained
// memory rather than collectable garbage or lazily-held pages.
func collect() {
	debug.FreeOSMemory()
}
