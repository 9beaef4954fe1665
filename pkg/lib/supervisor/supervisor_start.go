package supervisor

import (
	"context"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

// Start launches the backend unless one is already held.
// A start racing another start joins it; a start racing a stop fails with ErrTransitionInProgress.
// After Close every start fails with ErrShuttingDown.
func (s *Supervisor) Start(ctx context.Context) (lib.StartOutcome, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return "", ErrShuttingDown
		}
		switch s.state {
		case lib.ServerStateRunning:
			if s.current.IsRunning() {
				s.mu.Unlock()
				return lib.AlreadyRunning, nil
			}
			// exited; the watcher has not cleared it yet
			s.clearLocked(s.current)
		case lib.ServerStateStarting:
			f := s.starting
			s.mu.Unlock()
			if err := f.wait(ctx); err != nil {
				return "", err
			}
			continue
		case lib.ServerStateStopping:
			s.mu.Unlock()
			return "", ErrTransitionInProgress
		}

		f := newFlight()
		s.state = lib.ServerStateStarting
		s.starting = f
		s.mu.Unlock()

		proc, err := s.launch()

		s.mu.Lock()
		s.starting = nil
		if err != nil {
			s.state = lib.ServerStateStopped
			f.err = err
			close(f.done)
			s.mu.Unlock()
			s.log.Error("backend failed to start", "error", err)
			return "", err
		}
		s.current = proc
		s.state = lib.ServerStateRunning
		close(f.done)
		s.mu.Unlock()

		s.log.Info("backend started", "launch_id", proc.ID(), "pid", proc.Pid(), "path", proc.Path())
		go s.watch(proc)
		return lib.Started, nil
	}
}

func (s *Supervisor) launch() (Process, error) {
	if s.resolver == nil {
		return nil, &runner.SpawnError{Err: errNoResolver}
	}
	exe, err := s.resolver.Resolve()
	if err != nil {
		return nil, &runner.SpawnError{Path: exe.Path, Err: err}
	}
	return s.launcher.Launch(exe)
}

// watch clears the handle when the backend exits on its own.
func (s *Supervisor) watch(p Process) {
	<-p.Done()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != p || s.state != lib.ServerStateRunning {
		// a stop owns this handle, or it was already cleared
		return
	}
	s.clearLocked(p)
	s.log.Warn("backend exited unexpectedly", "launch_id", p.ID(), "pid", p.Pid(), "status", s.lastExitString())
}

func (s *Supervisor) lastExitString() string {
	if s.lastExit == nil {
		return "unknown"
	}
	return s.lastExit.String()
}
