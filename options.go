// (c) Copyright Enthought, Inc. 2013

package erinyes

import "github.com/enthought/erinyes/isolation"

// Option adjusts the parameters of a single check.
type Option func(*config)

type config struct {
	iterations int
	slack      float64
	sampler    Sampler
	spawner    isolation.Spawner
	logger     LeveledLogger
	failureMsg string
}

func newConfig(slack float64, opts []Option) config {
	cfg := config{
		iterations: DefaultIterations,
		slack:      slack,
		sampler:    defaultSampler(),
		spawner:    isolation.NewProcessSpawner(),
		logger:     defaultLogger,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithIterations sets how many times the operation under test is invoked.
// The default is DefaultIterations.
func WithIterations(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.iterations = n
		}
	}
}

// WithSlack sets the tolerated usage growth relative to the baseline. The
// default is 0 for in-process checks and DefaultIsolatedSlack for
// isolated ones.
func WithSlack(slack float64) Option {
	return func(cfg *config) {
		if slack >= 0 {
			cfg.slack = slack
		}
	}
}

// WithSampler overrides how memory usage is measured by in-process
// checks. The default samples the resident set size of the current
// process, falling back to Go heap usage on platforms without proc
// stats. Isolated workers always measure themselves with the platform
// default sampler.
func WithSampler(s Sampler) Option {
	return func(cfg *config) {
		if s != nil {
			cfg.sampler = s
		}
	}
}

// WithSpawner overrides how isolated checks create their worker. The
// default re-executes the current binary as a child process.
func WithSpawner(sp isolation.Spawner) Option {
	return func(cfg *config) {
		if sp != nil {
			cfg.spawner = sp
		}
	}
}

// WithGoroutineIsolation runs the isolated check's worker as a goroutine
// of the current process instead of a child process. This keeps the
// check usable in environments where re-executing the binary is not an
// option, at the cost of crash isolation: a worker that exhausts memory
// takes the test process down with it.
func WithGoroutineIsolation() Option {
	return WithSpawner(isolation.NewGoroutineSpawner(runJob))
}

// WithLogger sets the logger used by this check. The default is the
// package-wide logger.
func WithLogger(l LeveledLogger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithFailureMessage replaces the generated failure message reported by
// the Assert helpers.
func WithFailureMessage(msg string) Option {
	return func(cfg *config) {
		cfg.failureMsg = msg
	}
}

// failureMessage returns the message an Assert helper reports for err,
// honoring a WithFailureMessage override.
func failureMessage(err error, opts []Option) string {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.failureMsg != "" {
		return cfg.failureMsg
	}

	return err.Error()
}
