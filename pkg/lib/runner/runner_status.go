package runner

import (
	"time"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

// ID returns the launch id that tags this child in logs and status.
func (h *Handle) ID() string { return h.id }

// Pid returns the OS process id. It stays set after exit for diagnostics.
func (h *Handle) Pid() int { return h.pid }

// Path returns the launched executable.
func (h *Handle) Path() string { return h.path }

// Dir returns the working directory of the child.
func (h *Handle) Dir() string { return h.dir }

// StartTime returns when the child was started.
func (h *Handle) StartTime() time.Time { return h.started }

// Done is closed once the child has exited and its status is recorded.
func (h *Handle) Done() <-chan struct{} { return h.done }

// IsRunning reports whether the child has not yet been observed to exit.
func (h *Handle) IsRunning() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// Exit returns a copy of the exit status, or nil while running.
func (h *Handle) Exit() *lib.ExitStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.exit == nil {
		return nil
	}
	st := *h.exit
	if st.Code != nil {
		code := *st.Code
		st.Code = &code
	}
	return &st
}

// EndTime returns when the exit was observed, zero while running.
func (h *Handle) EndTime() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ended
}
