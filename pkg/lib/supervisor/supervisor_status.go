package supervisor

import (
	"context"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

// Status returns a snapshot of the supervised backend.
func (s *Supervisor) Status() lib.ServerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := lib.ServerStatus{State: s.state}
	if s.lastExit != nil {
		exit := *s.lastExit
		st.LastExit = &exit
	}
	if s.current == nil {
		return st
	}
	if s.state == lib.ServerStateRunning && !s.current.IsRunning() {
		st.State = lib.ServerStateStopped
		st.LastExit = s.current.Exit()
		return st
	}
	st.LaunchID = s.current.ID()
	st.Pid = s.current.Pid()
	st.StartTime = s.current.StartTime()
	st.Executable = s.current.Path()
	return st
}

// Output follows the stdout and stderr of the current backend, replaying what it retained.
func (s *Supervisor) Output(ctx context.Context) (<-chan []byte, <-chan []byte, error) {
	s.mu.Lock()
	p := s.current
	s.mu.Unlock()
	if p == nil {
		return nil, nil, ErrNotRunning
	}
	stdout, stderr := p.Output(ctx)
	return stdout, stderr, nil
}
