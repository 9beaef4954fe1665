package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

var (
	// ErrTransitionInProgress is returned by Start while a stop is still tearing the backend down.
	ErrTransitionInProgress = errors.New("backend is stopping")
	// ErrNotRunning is returned by Output when there is no backend to follow.
	ErrNotRunning = errors.New("backend is not running")
	// ErrShuttingDown is returned by Start once Close has been called.
	ErrShuttingDown = errors.New("agent is shutting down")
)

// Process is the part of a launched child the supervisor depends on.
// *runner.Handle implements it.
type Process interface {
	ID() string
	Pid() int
	Path() string
	StartTime() time.Time
	Done() <-chan struct{}
	IsRunning() bool
	Exit() *lib.ExitStatus
	Terminate(ctx context.Context, grace time.Duration) (runner.TerminationResult, error)
	Output(ctx context.Context) (<-chan []byte, <-chan []byte)
}

// Launcher starts one backend process.
type Launcher interface {
	Launch(exe Executable) (Process, error)
}

// Options configures a Supervisor.
type Options struct {
	Resolver    Resolver
	Launcher    Launcher
	GracePeriod time.Duration
	Logger      *slog.Logger
}

// flight is one in-progress transition that later callers can join.
type flight struct {
	done chan struct{}
	err  error
}

func newFlight() *flight {
	return &flight{done: make(chan struct{})}
}

// wait blocks until the flight resolves or ctx ends. ctx only bounds this caller.
func (f *flight) wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Supervisor owns at most one backend process and serializes every lifecycle
// transition through mu. mu is never held while signalling or spawning.
type Supervisor struct {
	resolver Resolver
	launcher Launcher
	grace    time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	state    lib.ServerState
	current  Process
	starting *flight
	stopping *flight
	lastExit *lib.ExitStatus
	// closed is set by Close and never cleared.
	closed bool
}

// New returns a supervisor in the Stopped state with no backend.
func New(opts Options) *Supervisor {
	grace := opts.GracePeriod
	if grace <= 0 {
		grace = runner.DefaultGracePeriod
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = &RunnerLauncher{}
	}
	return &Supervisor{
		resolver: opts.Resolver,
		launcher: launcher,
		grace:    grace,
		log:      log.With("component", "supervisor"),
		state:    lib.ServerStateStopped,
	}
}

// IsRunning reports whether a backend is held and still alive.
func (s *Supervisor) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.IsRunning()
}

// clearLocked drops the current handle after it was observed dead. Caller holds mu.
func (s *Supervisor) clearLocked(p Process) {
	if exit := p.Exit(); exit != nil {
		s.lastExit = exit
	}
	s.current = nil
	s.state = lib.ServerStateStopped
}
