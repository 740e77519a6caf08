// (c) Copyright Enthought, Inc. 2013

package isolation

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
)

// Environment variables making up the worker re-exec protocol. A process
// carrying EnvWorker in its environment is a worker: instead of running
// its normal workload it executes the named registered operation through
// the repeated-call check and reports over the outcome pipe.
const (
	EnvWorker     = "ERINYES_WORKER"
	EnvIterations = "ERINYES_WORKER_ITERATIONS"
	EnvSlack      = "ERINYES_WORKER_SLACK"
	EnvToken      = "ERINYES_WORKER_TOKEN"
)

// outcomeFD is the file descriptor number the worker's end of the outcome
// pipe is mapped to in the child, right after stdin/stdout/stderr.
const outcomeFD = 3

// ProcessSpawner runs workers as child processes by re-executing the
// current binary. This is the default isolation mechanism: a worker that
// exhausts memory or corrupts its own state cannot affect the parent test
// session.
type ProcessSpawner struct{}

// NewProcessSpawner returns a spawner that re-executes os.Args[0] for
// every worker.
func NewProcessSpawner() ProcessSpawner {
	return ProcessSpawner{}
}

// Spawn prepares a child process for the job. The job's Fn is ignored;
// the child resolves the operation from its own registry by name.
func (ProcessSpawner) Spawn(job Job) (Handle, Receiver, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create the outcome pipe: %w", err)
	}

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(),
		EnvWorker+"="+job.Name,
		EnvIterations+"="+strconv.Itoa(job.Iterations),
		EnvSlack+"="+strconv.FormatFloat(job.Slack, 'g', -1, 64),
		EnvToken+"="+job.Token,
	)
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{w}

	recv := newPipeReceiver(r)

	return &processHandle{cmd: cmd, childEnd: w, recv: recv}, recv, nil
}

type processHandle struct {
	cmd      *exec.Cmd
	childEnd *os.File
	recv     *pipeReceiver

	mu      sync.Mutex
	started bool
	waited  bool
}

func (h *processHandle) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.cmd.Start(); err != nil {
		h.childEnd.Close()
		return fmt.Errorf("failed to start worker process: %w", err)
	}

	// The parent's copy of the write end must go away, otherwise the
	// receiver would never observe EOF.
	h.childEnd.Close()
	h.recv.drain()
	h.started = true

	return nil
}

func (h *processHandle) Join() error {
	err := h.cmd.Wait()

	h.mu.Lock()
	h.waited = true
	h.mu.Unlock()

	// A non-zero exit or a kill is a worker outcome (crash), not a join
	// failure.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}

	return err
}

func (h *processHandle) Terminate() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started || h.waited {
		return nil
	}

	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to terminate worker process: %w", err)
	}

	return nil
}

func (h *processHandle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started || h.waited {
		return false
	}

	return h.cmd.Process.Signal(syscall.Signal(0)) == nil
}

// JobFromEnv reconstructs the job a worker process was spawned for. The
// second return value is false when the current process is not a worker.
func JobFromEnv() (Job, bool) {
	name := os.Getenv(EnvWorker)
	if name == "" {
		return Job{}, false
	}

	job := Job{Name: name, Token: os.Getenv(EnvToken)}

	if n, err := strconv.Atoi(os.Getenv(EnvIterations)); err == nil {
		job.Iterations = n
	}
	if s, err := strconv.ParseFloat(os.Getenv(EnvSlack), 64); err == nil {
		job.Slack = s
	}

	return job, true
}

// SenderFromEnv returns the worker-side end of the outcome pipe inside a
// worker process.
func SenderFromEnv() Sender {
	return pipeSender{w: os.NewFile(outcomeFD, "outcome")}
}
