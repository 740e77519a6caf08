// (c) Copyright Enthought, Inc. 2013

//go:build !linux
// +build !linux

package process

type statsReader struct {
	ProcPath string
	Command  string
}

// Stats returns a resource stats reader for the current process
func Stats() statsReader {
	return statsReader{}
}

// StatsFor returns a resource stats reader for an arbitrary process
func StatsFor(pid int) statsReader {
	return statsReader{}
}

// Memory returns memory stats for the process
func (statsReader) Memory() (MemStats, error) {
	return MemStats{}, ErrUnsupported
}

// CPU returns CPU time consumed by the process so far
func (statsReader) CPU() (CPUStats, error) {
	return CPUStats{}, ErrUnsupported
}

// Limits returns resource limits configured for the process
func (statsReader) Limits() (ResourceLimits, error) {
	return ResourceLimits{}, ErrUnsupported
}
