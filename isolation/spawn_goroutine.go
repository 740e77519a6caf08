// (c) Copyright Enthought, Inc. 2013

package isolation

import "sync"

// GoroutineSpawner runs workers as goroutines with a capacity-1 in-process
// channel instead of child processes. It keeps the same protocol but
// trades crash isolation for portability: a worker that exhausts memory
// takes the whole process down with it. Choosing it is an explicit
// configuration decision, never a silent substitution.
type GoroutineSpawner struct {
	// Entry executes the job and produces its outcome. A panic escaping
	// Entry is absorbed and surfaces as a missing outcome (a crash).
	Entry func(Job) Outcome
}

// NewGoroutineSpawner returns a spawner running each job through entry in
// a dedicated goroutine.
func NewGoroutineSpawner(entry func(Job) Outcome) GoroutineSpawner {
	return GoroutineSpawner{Entry: entry}
}

// Spawn prepares a goroutine worker for the job.
func (sp GoroutineSpawner) Spawn(job Job) (Handle, Receiver, error) {
	ch := newMemChannel()

	h := &goroutineHandle{done: make(chan struct{})}
	h.run = func() {
		defer func() {
			// A panic here means the entry itself broke, not the
			// operation under test; the empty channel reports it as a
			// crash.
			recover()
		}()

		ch.Put(sp.Entry(job))
	}

	return h, ch, nil
}

type goroutineHandle struct {
	run  func()
	done chan struct{}

	mu      sync.Mutex
	started bool
}

func (h *goroutineHandle) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return nil
	}
	h.started = true

	go func() {
		defer close(h.done)
		h.run()
	}()

	return nil
}

func (h *goroutineHandle) Join() error {
	h.mu.Lock()
	started := h.started
	h.mu.Unlock()

	if !started {
		return nil
	}

	<-h.done

	return nil
}

// Terminate is a no-op for goroutine workers: a goroutine cannot be
// killed from outside. It exists so that the caller's unconditional
// cleanup step stays uniform across spawners.
func (h *goroutineHandle) Terminate() error {
	return nil
}

func (h *goroutineHandle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return false
	}

	select {
	case <-h.done:
		return false
	default:
		return true
	}
}
