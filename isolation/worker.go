// (c) Copyright Enthought, Inc. 2013

package isolation

import (
	"context"
	"fmt"

	f "github.com/looplab/fsm"
)

// Worker lifecycle states.
const (
	StateSpawned    = "spawned"
	StateRunning    = "running"
	StateFinished   = "finished"
	StateFailed     = "failed"
	StateCrashed    = "crashed"
	StateTerminated = "terminated"
)

// Worker lifecycle events.
const (
	eventStart     = "start"
	eventFinish    = "finish"
	eventFail      = "fail"
	eventCrash     = "crash"
	eventTerminate = "terminate"
)

// Job describes one isolated leak check run.
type Job struct {
	// Name of the registered operation under test.
	Name string
	// Fn is the resolved operation. It is only used by in-process
	// spawners; a process spawner passes Name to the re-executed binary
	// instead, since functions do not cross process boundaries.
	Fn func()
	// Iterations and Slack parameterize the repeated-call check run
	// inside the worker.
	Iterations int
	Slack      float64
	// Token correlates the worker's outcome with this run.
	Token string
}

// Handle is the spawner-specific process handle backing a Worker.
type Handle interface {
	Start() error
	// Join blocks until the worker has exited. An abnormal exit is not a
	// join error; it surfaces as a missing outcome.
	Join() error
	// Terminate forcibly stops the worker. It is idempotent and safe to
	// call after the worker has already exited.
	Terminate() error
	// Running reports whether the worker is currently executing.
	Running() bool
}

// Spawner creates a worker for a job together with the receiving end of
// its outcome channel.
type Spawner interface {
	Spawn(job Job) (Handle, Receiver, error)
}

// Worker drives one isolated check run through its lifecycle:
//
//	spawned → running → {finished, failed, crashed} → terminated
//
// Terminated is reached from every prior state via Terminate, which the
// parent calls unconditionally after collecting the outcome.
type Worker struct {
	handle Handle
	recv   Receiver
	token  string
	fsm    *f.FSM
}

// NewWorker spawns a worker for the given job. The returned worker has
// not started yet.
func NewWorker(sp Spawner, job Job) (*Worker, error) {
	handle, recv, err := sp.Spawn(job)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn worker: %w", err)
	}

	w := &Worker{
		handle: handle,
		recv:   recv,
		token:  job.Token,
	}

	w.fsm = f.NewFSM(
		StateSpawned,
		f.Events{
			{Name: eventStart, Src: []string{StateSpawned}, Dst: StateRunning},
			{Name: eventFinish, Src: []string{StateRunning}, Dst: StateFinished},
			{Name: eventFail, Src: []string{StateRunning}, Dst: StateFailed},
			{Name: eventCrash, Src: []string{StateRunning}, Dst: StateCrashed},
			{Name: eventTerminate, Src: []string{
				StateSpawned, StateRunning, StateFinished, StateFailed, StateCrashed,
			}, Dst: StateTerminated},
		},
		f.Callbacks{},
	)

	return w, nil
}

// Start begins executing the job in the worker.
func (w *Worker) Start() error {
	if err := w.fsm.Event(context.Background(), eventStart); err != nil {
		return err
	}

	return w.handle.Start()
}

// Join blocks until the worker has exited.
func (w *Worker) Join() error {
	return w.handle.Join()
}

// Outcome collects the worker's outcome after it has been joined and
// advances the lifecycle to the matching terminal state. A missing
// message, or a message carrying a foreign token, means the worker died
// before reporting and yields (Outcome{}, false).
func (w *Worker) Outcome() (Outcome, bool) {
	o, ok := w.recv.TryGet()
	if !ok || o.Token != w.token {
		w.fsm.Event(context.Background(), eventCrash)
		return Outcome{}, false
	}

	switch o.Status {
	case StatusFinished:
		w.fsm.Event(context.Background(), eventFinish)
	default:
		w.fsm.Event(context.Background(), eventFail)
	}

	return o, true
}

// Terminate stops the worker if it is still running and marks the
// lifecycle terminated. It never fails on a worker that has already
// exited and may be called multiple times.
func (w *Worker) Terminate() error {
	if !w.fsm.Is(StateTerminated) {
		w.fsm.Event(context.Background(), eventTerminate)
	}

	return w.handle.Terminate()
}

// State returns the current lifecycle state of the worker.
func (w *Worker) State() string {
	return w.fsm.Current()
}

// Running reports whether the worker is currently executing.
func (w *Worker) Running() bool {
	return w.handle.Running()
}
