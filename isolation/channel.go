// (c) Copyright Enthought, Inc. 2013

package isolation

import (
	"fmt"
	"io"
	"os"
)

// Sender is the worker-side end of the one-shot outcome channel.
type Sender interface {
	// Put delivers the outcome to the parent. It must be called at most
	// once; the channel is closed afterwards.
	Put(Outcome) error
}

// Receiver is the parent-side end of the one-shot outcome channel.
type Receiver interface {
	// TryGet returns the worker's outcome, if any was delivered. It must
	// only be called after the worker has been joined; the join is what
	// orders the worker's write before this read.
	TryGet() (Outcome, bool)
}

// memChannel is a capacity-1 in-process channel used with goroutine
// workers.
type memChannel struct {
	ch chan Outcome
}

func newMemChannel() *memChannel {
	return &memChannel{ch: make(chan Outcome, 1)}
}

func (c *memChannel) Put(o Outcome) error {
	select {
	case c.ch <- o:
		return nil
	default:
		return fmt.Errorf("outcome channel already holds a message")
	}
}

func (c *memChannel) TryGet() (Outcome, bool) {
	select {
	case o := <-c.ch:
		return o, true
	default:
		return Outcome{}, false
	}
}

// pipeReceiver drains the parent end of the outcome pipe. The drain runs
// in the background from the moment the worker starts, so the pipe buffer
// can never back up, and completes when the worker's end is closed, which
// happens at the latest when the worker exits.
type pipeReceiver struct {
	r *os.File

	done chan struct{}
	data []byte
}

func newPipeReceiver(r *os.File) *pipeReceiver {
	return &pipeReceiver{
		r:    r,
		done: make(chan struct{}),
	}
}

func (pr *pipeReceiver) drain() {
	go func() {
		defer close(pr.done)
		defer pr.r.Close()

		data, err := io.ReadAll(pr.r)
		if err != nil {
			return
		}
		pr.data = data
	}()
}

func (pr *pipeReceiver) TryGet() (Outcome, bool) {
	// The worker has exited by now, so EOF on the pipe is imminent; this
	// wait is bounded and does not depend on the worker's behavior.
	<-pr.done

	if len(pr.data) == 0 {
		return Outcome{}, false
	}

	o, err := DecodeOutcome(pr.data)
	if err != nil {
		return Outcome{}, false
	}

	return o, true
}

// pipeSender is the worker-side end of the outcome pipe.
type pipeSender struct {
	w *os.File
}

func (ps pipeSender) Put(o Outcome) error {
	defer ps.w.Close()

	data, err := o.Encode()
	if err != nil {
		return err
	}

	if _, err := ps.w.Write(data); err != nil {
		return fmt.Errorf("failed to deliver the worker outcome: %w", err)
	}

	return nil
}
