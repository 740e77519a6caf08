// (c) Copyright Enthought, Inc. 2013

//go:build linux
// +build linux

package process

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
)

const (
	pageSize = 4 << 10 // standard setting, applicable for most systems
	procFS   = "/proc"
)

type statsReader struct {
	ProcPath string
	Command  string
}

// Stats returns a resource stats reader for the current process
func Stats() statsReader {
	return statsReader{
		ProcPath: procFS + "/self",
		Command:  path.Base(os.Args[0]),
	}
}

// StatsFor returns a resource stats reader for an arbitrary process. The
// reader does not hold the process: a pid that exits between reads makes
// the next read fail with ErrNotRunning.
func StatsFor(pid int) statsReader {
	return statsReader{
		ProcPath: procFS + "/" + strconv.Itoa(pid),
	}
}

// Memory returns memory stats for the process
func (rdr statsReader) Memory() (MemStats, error) {
	fd, err := os.Open(rdr.ProcPath + "/statm")
	if err != nil {
		if os.IsNotExist(err) {
			return MemStats{}, ErrNotRunning
		}
		return MemStats{}, fmt.Errorf("failed to open %s/statm: %w", rdr.ProcPath, err)
	}
	defer fd.Close()

	var total, rss, shared int

	// The fields come in order described in `/proc/[pid]/statm` section
	// of https://man7.org/linux/man-pages/man5/proc.5.html
	if _, err := fmt.Fscanf(fd, "%d %d %d",
		&total,  // size
		&rss,    // resident
		&shared, // shared
		// ... the rest of the fields are not used and thus omitted
	); err != nil {
		return MemStats{}, fmt.Errorf("failed to parse %s: %s", fd.Name(), err)
	}

	return MemStats{
		Total:  total * pageSize,
		Rss:    rss * pageSize,
		Shared: shared * pageSize,
	}, nil
}

// CPU returns CPU time consumed by the process so far
func (rdr statsReader) CPU() (CPUStats, error) {
	data, err := os.ReadFile(rdr.ProcPath + "/stat")
	if err != nil {
		if os.IsNotExist(err) {
			return CPUStats{}, ErrNotRunning
		}
		return CPUStats{}, fmt.Errorf("failed to read %s/stat: %w", rdr.ProcPath, err)
	}

	// The command name is enclosed in parentheses and may contain both
	// spaces and parentheses itself, so the fixed-position fields start
	// after the last closing one. Field numbers below follow the
	// `/proc/[pid]/stat` section of proc(5), counted from 1.
	ind := strings.LastIndexByte(string(data), ')')
	if ind < 0 {
		return CPUStats{}, fmt.Errorf("failed to parse %s/stat: malformed content", rdr.ProcPath)
	}

	fields := strings.Fields(string(data[ind+1:]))
	if len(fields) < 13 {
		return CPUStats{}, fmt.Errorf("failed to parse %s/stat: unexpected number of fields", rdr.ProcPath)
	}

	utime, err := strconv.Atoi(fields[11]) // (14) utime
	if err != nil {
		return CPUStats{}, fmt.Errorf("failed to parse utime: %s", err)
	}

	stime, err := strconv.Atoi(fields[12]) // (15) stime
	if err != nil {
		return CPUStats{}, fmt.Errorf("failed to parse stime: %s", err)
	}

	return CPUStats{
		User:   utime,
		System: stime,
	}, nil
}

// Limits returns resource limits configured for the process
func (rdr statsReader) Limits() (ResourceLimits, error) {
	fdsInUse, err := rdr.countOpenFiles()
	if err != nil {
		return ResourceLimits{}, err
	}

	data, err := os.ReadFile(rdr.ProcPath + "/limits")
	if err != nil {
		if os.IsNotExist(err) {
			return ResourceLimits{}, ErrNotRunning
		}
		return ResourceLimits{}, fmt.Errorf("failed to read %s/limits: %w", rdr.ProcPath, err)
	}

	limits := ResourceLimits{
		OpenFiles: LimitedResource{Current: fdsInUse},
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "Max open files") {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(line, "Max open files"))
		if len(fields) < 1 {
			return ResourceLimits{}, fmt.Errorf("failed to parse %s/limits: malformed 'Max open files' entry", rdr.ProcPath)
		}

		if fields[0] == "unlimited" {
			limits.OpenFiles.Max = -1
			break
		}

		softLimit, err := strconv.Atoi(fields[0])
		if err != nil {
			return ResourceLimits{}, fmt.Errorf("failed to parse the soft limit for open files: %s", err)
		}

		limits.OpenFiles.Max = softLimit
		break
	}

	return limits, nil
}

func (rdr statsReader) countOpenFiles() (int, error) {
	fds, err := os.ReadDir(rdr.ProcPath + "/fd")
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("failed to list %s/fd: %w", rdr.ProcPath, err)
	}

	return len(fds), nil
}
