// (c) Copyright Enthought, Inc. 2013

// Package process queries resource usage of live processes via the proc
// filesystem. It is the only interface between the leak-check harness and
// the operating system: all reads are side-effect free.
package process

import "errors"

// ErrNotRunning is returned when the queried process no longer exists.
// Callers must treat it as a hard failure of the surrounding check and not
// retry the query.
var ErrNotRunning = errors.New("process is not running")

// ErrUnsupported is returned on platforms without a proc filesystem. The
// detector falls back to sampling the Go heap in that case.
var ErrUnsupported = errors.New("process stats are not supported on this platform")

// MemStats represents memory stats for a process
type MemStats struct {
	Total  int
	Rss    int
	Shared int
}

// CPUStats represents CPU stats for a process, in clock ticks
type CPUStats struct {
	User   int
	System int
}

// LimitedResource represents a limited resource with its current utilization
type LimitedResource struct {
	Current int
	Max     int
}

// ResourceLimits represents resource limits configured for a process
type ResourceLimits struct {
	OpenFiles LimitedResource
}
