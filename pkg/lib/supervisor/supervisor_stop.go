package supervisor

import (
	"context"
	"fmt"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

// Stop terminates the backend if one is held. Concurrent stops share one termination
// and each receives its outcome. ctx bounds only the caller's wait: the termination
// itself always runs to completion.
func (s *Supervisor) Stop(ctx context.Context) (lib.StopOutcome, error) {
	for {
		s.mu.Lock()
		switch s.state {
		case lib.ServerStateStopped:
			s.mu.Unlock()
			return lib.NotRunning, nil
		case lib.ServerStateStarting:
			f := s.starting
			s.mu.Unlock()
			if err := f.wait(ctx); err != nil && ctx.Err() != nil {
				return "", err
			}
			continue
		case lib.ServerStateStopping:
			f := s.stopping
			s.mu.Unlock()
			if err := f.wait(ctx); err != nil {
				return "", err
			}
			return lib.Stopped, nil
		}

		p := s.current
		if !p.IsRunning() {
			s.clearLocked(p)
			s.mu.Unlock()
			return lib.NotRunning, nil
		}
		f := newFlight()
		s.state = lib.ServerStateStopping
		s.stopping = f
		s.mu.Unlock()

		go s.terminate(p, f)
		if err := f.wait(ctx); err != nil {
			return "", err
		}
		return lib.Stopped, nil
	}
}

// Close refuses every later Start and then stops the backend. A start already in
// flight is allowed to finish and is stopped with the rest.
func (s *Supervisor) Close(ctx context.Context) (lib.StopOutcome, error) {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.log.Info("supervisor closed")
	return s.Stop(ctx)
}

func (s *Supervisor) terminate(p Process, f *flight) {
	s.log.Info("stopping backend", "launch_id", p.ID(), "pid", p.Pid(), "grace", s.grace)
	res, err := p.Terminate(context.Background(), s.grace)

	s.mu.Lock()
	if res.Exit != nil {
		s.lastExit = res.Exit
	} else if exit := p.Exit(); exit != nil {
		s.lastExit = exit
	}
	s.current = nil
	s.state = lib.ServerStateStopped
	s.stopping = nil
	if err != nil {
		f.err = fmt.Errorf("stop backend pid %d: %w", p.Pid(), err)
	}
	close(f.done)
	s.mu.Unlock()

	if err != nil {
		s.log.Error("backend did not stop", "launch_id", p.ID(), "pid", p.Pid(), "error", err)
		return
	}
	s.log.Info("backend stopped", "launch_id", p.ID(), "pid", p.Pid(), "outcome", res.Outcome.String())
}
