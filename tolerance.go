// (c) Copyright Enthought, Inc. 2013

package erinyes

import "fmt"

// Tolerance describes how much a memory usage sample may exceed the
// baseline before it counts as a violation. Slack is a fraction relative
// to the baseline: 0.2 tolerates 20% growth, 0 tolerates none.
type Tolerance struct {
	Baseline float64
	Slack    float64
}

// HardLimit returns the usage above which a sample violates the
// tolerance.
func (t Tolerance) HardLimit() float64 {
	return t.Baseline * (1 + t.Slack)
}

// ViolationError is the primary failure signal of the harness: a measured
// usage sample exceeded the tolerance-derived hard limit.
type ViolationError struct {
	// Excess is the measured growth relative to the baseline,
	// (sample - baseline) / baseline.
	Excess float64
	// Iterations is the 1-based number of completed invocations of the
	// operation under test at the time the violation was reported. It is
	// zero for single-sample checks.
	Iterations int
}

func (e *ViolationError) Error() string {
	if e.Iterations > 0 {
		return fmt.Sprintf("memory leak of %.2f%% after %d iterations", e.Excess*100, e.Iterations)
	}

	return fmt.Sprintf("memory leak of %.2f%%", e.Excess*100)
}
