// (c) Copyright Enthought, Inc. 2013

package pprofutil_test

import (
	"testing"

	"github.com/enthought/erinyes/internal/pprofutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var retained [][]byte

func TestHeapInUse(t *testing.T) {
	inuse, err := pprofutil.HeapInUse()
	require.NoError(t, err)
	assert.Greater(t, inuse, 0.0)
}

func TestHeapInUse_GrowsWithRetainedAllocations(t *testing.T) {
	before, err := pprofutil.HeapInUse()
	require.NoError(t, err)

	// Large enough to be sampled by the default heap profile rate with
	// near certainty.
	retained = append(retained, make([]byte, 32<<20))
	defer func() { retained = nil }()

	after, err := pprofutil.HeapInUse()
	require.NoError(t, err)

	assert.Greater(t, after, before)
}
