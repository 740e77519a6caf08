// (c) Copyright Enthought, Inc. 2013

package erinyes

import (
	"errors"
	"fmt"
	"testing"

	ot "github.com/opentracing/opentracing-go"
)

// CheckMemoryUsage takes one sample and verifies it does not exceed
// usage * (1 + slack). On violation it returns a ViolationError carrying
// the growth relative to usage. The outcome is a pure function of the
// sampled value and the tolerance.
func CheckMemoryUsage(s Sampler, usage, slack float64) error {
	sample, err := s.Sample()
	if err != nil {
		return err
	}

	tolerance := Tolerance{Baseline: usage, Slack: slack}
	if sample > tolerance.HardLimit() {
		return &ViolationError{Excess: (sample - usage) / usage}
	}

	return nil
}

// CheckReturnsMemory verifies that fn does not retain memory over
// repeated invocations. It forces a full collection and takes a baseline
// sample, then invokes fn the configured number of times, collecting and
// re-checking usage against the baseline after every invocation. The
// first violation aborts the loop.
//
// The check runs in the caller's process: an operation that genuinely
// leaks pollutes the test process for the rest of the session. Use
// CheckDoesNotLeak for untrusted operations.
func CheckReturnsMemory(fn func(), opts ...Option) error {
	cfg := newConfig(0, opts)

	span := ot.GlobalTracer().StartSpan("erinyes.check-returns-memory", ot.Tags{
		"erinyes.iterations": cfg.iterations,
		"erinyes.slack":      cfg.slack,
	})
	defer span.Finish()

	collect()

	baseline, err := cfg.sampler.Sample()
	if err != nil {
		return err
	}
	if baseline <= 0 {
		return fmt.Errorf("invalid baseline memory usage: %v bytes", baseline)
	}

	cfg.logger.Debug("baseline memory usage ", baseline, " bytes, hard limit ",
		Tolerance{Baseline: baseline, Slack: cfg.slack}.HardLimit(), " bytes")

	for i := 0; i < cfg.iterations; i++ {
		fn()
		collect()

		err := CheckMemoryUsage(cfg.sampler, baseline, cfg.slack)
		if err == nil {
			continue
		}

		var v *ViolationError
		if !errors.As(err, &v) {
			return err
		}

		// The excess is re-measured at abort time, so it may come from a
		// later, larger sample than the one that tripped the check. The
		// pass/fail outcome is unaffected; kept for compatibility with
		// the established report format.
		sample, serr := cfg.sampler.Sample()
		if serr != nil {
			return serr
		}

		violation := &ViolationError{
			Excess:     (sample - baseline) / baseline,
			Iterations: i + 1,
		}

		span.SetTag("error", true)
		span.LogKV("message", violation.Error())
		cfg.logger.Warn(violation.Error())

		return violation
	}

	return nil
}

// AssertMemoryUsage fails the test when the sampled memory usage exceeds
// usage * (1 + slack). An optional msg replaces the generated failure
// message.
func AssertMemoryUsage(t testing.TB, s Sampler, usage, slack float64, msg ...string) {
	t.Helper()

	if err := CheckMemoryUsage(s, usage, slack); err != nil {
		if len(msg) > 0 {
			t.Fatal(msg[0])
			return
		}

		t.Fatal(err.Error())
	}
}

// AssertReturnsMemory fails the test when fn retains memory over repeated
// invocations. See CheckReturnsMemory.
func AssertReturnsMemory(t testing.TB, fn func(), opts ...Option) {
	t.Helper()

	if err := CheckReturnsMemory(fn, opts...); err != nil {
		t.Fatal(failureMessage(err, opts))
	}
}
