// (c) Copyright Enthought, Inc. 2013

package isolation_test

import (
	"testing"
	"time"

	"github.com/enthought/erinyes/isolation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWorker_FinishedLifecycle(t *testing.T) {
	sp := isolation.NewGoroutineSpawner(func(job isolation.Job) isolation.Outcome {
		job.Fn()
		return isolation.Outcome{Token: job.Token, Status: isolation.StatusFinished}
	})

	invoked := false
	w, err := isolation.NewWorker(sp, isolation.Job{
		Name:  "op",
		Fn:    func() { invoked = true },
		Token: "tok",
	})
	require.NoError(t, err)
	assert.Equal(t, isolation.StateSpawned, w.State())

	require.NoError(t, w.Start())
	require.NoError(t, w.Join())

	o, ok := w.Outcome()
	require.True(t, ok)
	assert.Equal(t, isolation.StatusFinished, o.Status)
	assert.Equal(t, isolation.StateFinished, w.State())
	assert.True(t, invoked)

	require.NoError(t, w.Terminate())
	assert.Equal(t, isolation.StateTerminated, w.State())
	assert.False(t, w.Running())
}

func TestWorker_FailedLifecycle(t *testing.T) {
	sp := isolation.NewGoroutineSpawner(func(job isolation.Job) isolation.Outcome {
		return isolation.Outcome{
			Token:  job.Token,
			Status: isolation.StatusFailed,
			Detail: "memory leak of 30.00% after 4 iterations",
		}
	})

	w, err := isolation.NewWorker(sp, isolation.Job{Name: "op", Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.NoError(t, w.Join())

	o, ok := w.Outcome()
	require.True(t, ok)
	assert.Equal(t, isolation.StatusFailed, o.Status)
	assert.Contains(t, o.Detail, "memory leak")
	assert.Equal(t, isolation.StateFailed, w.State())

	require.NoError(t, w.Terminate())
	assert.Equal(t, isolation.StateTerminated, w.State())
}

func TestWorker_CrashedLifecycle(t *testing.T) {
	// the entry dies without delivering an outcome
	sp := isolation.NewGoroutineSpawner(func(isolation.Job) isolation.Outcome {
		panic("worker blew up")
	})

	w, err := isolation.NewWorker(sp, isolation.Job{Name: "op", Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.NoError(t, w.Join())

	_, ok := w.Outcome()
	assert.False(t, ok)
	assert.Equal(t, isolation.StateCrashed, w.State())

	require.NoError(t, w.Terminate())
	assert.Equal(t, isolation.StateTerminated, w.State())
	assert.False(t, w.Running())
}

func TestWorker_ForeignTokenIsACrash(t *testing.T) {
	sp := isolation.NewGoroutineSpawner(func(isolation.Job) isolation.Outcome {
		return isolation.Outcome{Token: "someone-else", Status: isolation.StatusFinished}
	})

	w, err := isolation.NewWorker(sp, isolation.Job{Name: "op", Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.NoError(t, w.Join())

	_, ok := w.Outcome()
	assert.False(t, ok)
	assert.Equal(t, isolation.StateCrashed, w.State())

	require.NoError(t, w.Terminate())
}

func TestWorker_TerminateIsIdempotent(t *testing.T) {
	sp := isolation.NewGoroutineSpawner(func(job isolation.Job) isolation.Outcome {
		return isolation.Outcome{Token: job.Token, Status: isolation.StatusFinished}
	})

	w, err := isolation.NewWorker(sp, isolation.Job{Name: "op", Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.NoError(t, w.Join())

	require.NoError(t, w.Terminate())
	require.NoError(t, w.Terminate())
	assert.Equal(t, isolation.StateTerminated, w.State())
}

func TestWorker_TerminateBeforeStart(t *testing.T) {
	sp := isolation.NewGoroutineSpawner(func(job isolation.Job) isolation.Outcome {
		return isolation.Outcome{Token: job.Token, Status: isolation.StatusFinished}
	})

	w, err := isolation.NewWorker(sp, isolation.Job{Name: "op", Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, w.Terminate())
	assert.Equal(t, isolation.StateTerminated, w.State())
	assert.False(t, w.Running())
}

func TestWorker_StartTwiceFails(t *testing.T) {
	sp := isolation.NewGoroutineSpawner(func(job isolation.Job) isolation.Outcome {
		return isolation.Outcome{Token: job.Token, Status: isolation.StatusFinished}
	})

	w, err := isolation.NewWorker(sp, isolation.Job{Name: "op", Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	assert.Error(t, w.Start())

	require.NoError(t, w.Join())
	require.NoError(t, w.Terminate())
}

func TestWorker_RunningWhileExecuting(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	sp := isolation.NewGoroutineSpawner(func(job isolation.Job) isolation.Outcome {
		close(started)
		<-release
		return isolation.Outcome{Token: job.Token, Status: isolation.StatusFinished}
	})

	w, err := isolation.NewWorker(sp, isolation.Job{Name: "op", Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, w.Start())

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not start")
	}
	assert.True(t, w.Running())

	close(release)
	require.NoError(t, w.Join())
	assert.False(t, w.Running())

	require.NoError(t, w.Terminate())
}

func TestJobFromEnv_NotAWorker(t *testing.T) {
	_, ok := isolation.JobFromEnv()
	assert.False(t, ok)
}

func TestJobFromEnv_Worker(t *testing.T) {
	t.Setenv(isolation.EnvWorker, "leaky-op")
	t.Setenv(isolation.EnvIterations, "25")
	t.Setenv(isolation.EnvSlack, "0.2")
	t.Setenv(isolation.EnvToken, "tok")

	job, ok := isolation.JobFromEnv()
	require.True(t, ok)
	assert.Equal(t, "leaky-op", job.Name)
	assert.Equal(t, 25, job.Iterations)
	assert.InDelta(t, 0.2, job.Slack, 1e-9)
	assert.Equal(t, "tok", job.Token)
}
