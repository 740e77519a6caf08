// (c) Copyright Enthought, Inc. 2013

package erinyes

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	ot "github.com/opentracing/opentracing-go"

	"github.com/enthought/erinyes/isolation"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func())
)

// Register makes an operation available to isolated checks under the
// given name. Worker processes resolve the operation from their own copy
// of the registry, so registration must happen before TestMain runs,
// typically from an init function. Registering the same name twice
// panics.
func Register(name string, fn func()) {
	if name == "" {
		panic("erinyes: Register with an empty operation name")
	}
	if fn == nil {
		panic("erinyes: Register with a nil operation")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("erinyes: operation %q is already registered", name))
	}

	registry[name] = fn
}

func registered(name string) (func(), bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	fn, ok := registry[name]

	return fn, ok
}

// Main is the TestMain hook that enables isolated checks. In a regular
// test-binary invocation it runs the tests and exits with their status.
// In a worker invocation, recognizable by the environment prepared by the
// spawner, it executes the requested operation through the repeated-call
// check, reports the outcome over the channel and exits without running
// any tests.
func Main(m *testing.M) {
	if job, ok := isolation.JobFromEnv(); ok {
		runWorker(job, isolation.SenderFromEnv())
		os.Exit(0)
	}

	os.Exit(m.Run())
}

func runWorker(job isolation.Job, out isolation.Sender) {
	if err := out.Put(runJob(job)); err != nil {
		defaultLogger.Error("failed to report the worker outcome: ", err)
	}
}

// runJob executes one isolated check job to completion and folds every
// possible failure, including panics from the operation under test, into
// a single outcome message.
func runJob(job isolation.Job) isolation.Outcome {
	fn := job.Fn
	if fn == nil {
		var ok bool
		if fn, ok = registered(job.Name); !ok {
			return isolation.Outcome{
				Token:  job.Token,
				Status: isolation.StatusFailed,
				Detail: fmt.Sprintf("operation %q is not registered in the worker", job.Name),
			}
		}
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()

		return CheckReturnsMemory(fn, WithIterations(job.Iterations), WithSlack(job.Slack))
	}()

	if err != nil {
		return isolation.Outcome{
			Token:  job.Token,
			Status: isolation.StatusFailed,
			Detail: err.Error(),
		}
	}

	return isolation.Outcome{Token: job.Token, Status: isolation.StatusFinished}
}

// CheckDoesNotLeak runs the repeated-call check for a registered
// operation inside a disposable worker and recovers its outcome. A worker
// that reports a violation or any other failure makes the check fail with
// that description; a worker that dies without reporting, for example
// killed by the operating system after exhausting memory, makes it fail
// with a generic crash message. The worker is terminated on every exit
// path, so no orphaned process survives the check.
func CheckDoesNotLeak(name string, opts ...Option) (err error) {
	cfg := newConfig(DefaultIsolatedSlack, opts)

	span := ot.GlobalTracer().StartSpan("erinyes.check-does-not-leak", ot.Tags{
		"erinyes.operation":  name,
		"erinyes.iterations": cfg.iterations,
		"erinyes.slack":      cfg.slack,
	})
	defer span.Finish()

	fn, ok := registered(name)
	if !ok {
		return fmt.Errorf("operation %q is not registered", name)
	}

	job := isolation.Job{
		Name:       name,
		Fn:         fn,
		Iterations: cfg.iterations,
		Slack:      cfg.slack,
		Token:      uuid.New().String(),
	}

	w, werr := isolation.NewWorker(cfg.spawner, job)
	if werr != nil {
		return werr
	}

	// Cleanup must survive any failure in outcome collection: the worker
	// process is reclaimed no matter how the check itself went.
	defer func() {
		if terr := w.Terminate(); terr != nil && err == nil {
			err = terr
		}
	}()

	if err := w.Start(); err != nil {
		return err
	}

	cfg.logger.Debug("worker ", job.Token, " started for operation ", name)

	if err := w.Join(); err != nil {
		return err
	}

	out, delivered := w.Outcome()
	cfg.logger.Debug("worker ", job.Token, " exited in state ", w.State())

	switch {
	case !delivered:
		span.SetTag("error", true)
		return fmt.Errorf("worker running %q terminated abnormally without reporting an outcome", name)
	case out.Status == isolation.StatusFinished:
		return nil
	default:
		span.SetTag("error", true)
		span.LogKV("message", out.Detail)
		return errors.New(out.Detail)
	}
}

// AssertDoesNotLeak fails the test when the operation registered under
// name retains memory, crashes or otherwise fails inside its isolated
// worker. See CheckDoesNotLeak.
func AssertDoesNotLeak(t testing.TB, name string, opts ...Option) {
	t.Helper()

	if err := CheckDoesNotLeak(name, opts...); err != nil {
		t.Fatal(failureMessage(err, opts))
	}
}
