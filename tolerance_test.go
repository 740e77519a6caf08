// (c) Copyright Enthought, Inc. 2013

package erinyes_test

import (
	"testing"

	"github.com/enthought/erinyes"
	"github.com/stretchr/testify/assert"
)

func TestTolerance_HardLimit(t *testing.T) {
	examples := map[string]struct {
		tolerance erinyes.Tolerance
		expected  float64
	}{
		"zero slack": {
			tolerance: erinyes.Tolerance{Baseline: 100.0},
			expected:  100.0,
		},
		"10% slack": {
			tolerance: erinyes.Tolerance{Baseline: 100.0, Slack: 0.1},
			expected:  110.0,
		},
		"slack above 100%": {
			tolerance: erinyes.Tolerance{Baseline: 50.0, Slack: 1.5},
			expected:  125.0,
		},
	}

	for name, example := range examples {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, example.expected, example.tolerance.HardLimit(), 1e-9)
		})
	}
}

func TestViolationError_Message(t *testing.T) {
	err := &erinyes.ViolationError{Excess: 0.15}
	assert.Equal(t, "memory leak of 15.00%", err.Error())

	err = &erinyes.ViolationError{Excess: 0.0525, Iterations: 42}
	assert.Equal(t, "memory leak of 5.25% after 42 iterations", err.Error())
}
