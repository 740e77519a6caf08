// (c) Copyright Enthought, Inc. 2013

//go:build linux
// +build linux

package process_test

import (
	"testing"

	"github.com/enthought/erinyes/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Memory(t *testing.T) {
	rdr := process.Stats()
	rdr.ProcPath = "testdata"

	stats, err := rdr.Memory()
	require.NoError(t, err)
	assert.Equal(t, process.MemStats{
		Total:  1 * 4 << 10,
		Rss:    2 * 4 << 10,
		Shared: 3 * 4 << 10,
	}, stats)
}

func TestStats_Memory_ProcessGone(t *testing.T) {
	rdr := process.StatsFor(1<<22 + 1)

	_, err := rdr.Memory()
	assert.ErrorIs(t, err, process.ErrNotRunning)
}

func TestStats_CPU(t *testing.T) {
	rdr := process.Stats()
	rdr.ProcPath = "testdata"
	rdr.Command = "Hello, brave new world"

	stats, err := rdr.CPU()
	require.NoError(t, err)
	assert.Equal(t, process.CPUStats{
		User:   14,
		System: 15,
	}, stats)
}

func TestStats_CPU_ProcessGone(t *testing.T) {
	rdr := process.StatsFor(1<<22 + 1)

	_, err := rdr.CPU()
	assert.ErrorIs(t, err, process.ErrNotRunning)
}

func TestStats_Limits(t *testing.T) {
	rdr := process.Stats()
	rdr.ProcPath = "testdata"

	limits, err := rdr.Limits()
	require.NoError(t, err)
	assert.Equal(t, process.ResourceLimits{
		OpenFiles: process.LimitedResource{
			Current: 4,
			Max:     1024,
		},
	}, limits)
}

func TestStats_Self(t *testing.T) {
	stats, err := process.Stats().Memory()
	require.NoError(t, err)
	assert.Greater(t, stats.Rss, 0)
}
