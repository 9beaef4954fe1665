package runner

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// termination is one in-flight Terminate shared by every concurrent caller.
type termination struct {
	done   chan struct{}
	result TerminationResult
	err    error
}

// Terminate asks the process tree to exit with SIGTERM and waits up to grace for it,
// then escalates to SIGKILL. Concurrent calls share a single termination; calling it on
// a handle that is no longer running resolves immediately with NotRunning.
// ctx bounds only the caller's wait, the termination itself keeps going.
func (h *Handle) Terminate(ctx context.Context, grace time.Duration) (TerminationResult, error) {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	h.termMu.Lock()
	t := h.term
	if t == nil {
		if !h.IsRunning() {
			h.termMu.Unlock()
			return TerminationResult{Outcome: NotRunning, Exit: h.Exit()}, nil
		}
		t = &termination{done: make(chan struct{})}
		h.term = t
		go h.terminate(t, grace)
	}
	h.termMu.Unlock()

	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return TerminationResult{}, ctx.Err()
	}
}

func (h *Handle) terminate(t *termination, grace time.Duration) {
	defer close(t.done)

	// Descendants are collected before signalling: once the child dies its
	// children are reparented and can no longer be found through it.
	descendants := descendantsOf(h.pid)

	logger.Info("terminating process tree", "id", h.id, "pid", h.pid, "descendants", len(descendants))
	signalTree(h.pid, descendants, unix.SIGTERM)

	if h.waitTree(descendants, time.Now().Add(grace)) {
		t.result = TerminationResult{Outcome: Terminated, Exit: h.Exit()}
		return
	}

	logger.Warn("escalating to SIGKILL", "id", h.id, "pid", h.pid, "grace", grace, "error", ErrTerminationTimeout)
	signalTree(h.pid, descendants, unix.SIGKILL)

	if h.waitTree(descendants, time.Now().Add(KillTimeout)) {
		t.result = TerminationResult{Outcome: Killed, Exit: h.Exit()}
		return
	}

	logger.Error("process tree survived SIGKILL", "id", h.id, "pid", h.pid)
	t.result = TerminationResult{Outcome: Killed, Exit: h.Exit()}
	t.err = ErrKillFailed
}

// waitTree reports whether the child and all given descendants are gone by deadline.
func (h *Handle) waitTree(descendants []int, deadline time.Time) bool {
	select {
	case <-h.done:
	case <-time.After(time.Until(deadline)):
		return false
	}

	tick := 10 * time.Millisecond
	for {
		alive := false
		for _, pid := range descendants {
			if processAlive(pid) {
				alive = true
				break
			}
		}
		if !alive {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(tick)
		if tick < 100*time.Millisecond {
			tick += 10 * time.Millisecond
		}
	}
}

// signalTree signals the child's process group and every known descendant.
// Processes that are already gone are ignored.
func signalTree(pid int, descendants []int, sig unix.Signal) {
	if err := unix.Kill(-pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		logger.Warn("failed to signal process group", "pgid", pid, "signal", unix.SignalName(sig), "error", err)
	}
	for _, d := range descendants {
		if err := unix.Kill(d, sig); err != nil && !errors.Is(err, unix.ESRCH) {
			logger.Warn("failed to signal descendant", "pid", d, "signal", unix.SignalName(sig), "error", err)
		}
	}
}
