package shutdown

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

// Reasons that can start a shutdown.
const (
	WindowClosed = "window-closed"
	Quit         = "quit"
	SIGINT       = "SIGINT"
	SIGTERM      = "SIGTERM"
)

// DefaultTimeout bounds how long the host waits for the backend to stop.
const DefaultTimeout = 12 * time.Second

// Stopper is what the coordinator tears down. Close stops the backend and
// keeps it from being started again.
type Stopper interface {
	Close(ctx context.Context) (lib.StopOutcome, error)
}

// Coordinator funnels every termination trigger into a single Close.
type Coordinator struct {
	stopper Stopper
	timeout time.Duration
	log     *slog.Logger

	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	reason string
	err    error
}

// New returns a coordinator that stops s on the first trigger.
func New(s Stopper, timeout time.Duration, log *slog.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		stopper: s,
		timeout: timeout,
		log:     log.With("component", "shutdown"),
		done:    make(chan struct{}),
	}
}

// Trigger starts shutdown. Only the first call has any effect; it returns immediately.
func (c *Coordinator) Trigger(reason string) {
	first := false
	c.once.Do(func() {
		first = true
		c.mu.Lock()
		c.reason = reason
		c.mu.Unlock()
		go c.run(reason)
	})
	if !first {
		c.log.Debug("shutdown already in progress", "trigger", reason)
	}
}

func (c *Coordinator) run(reason string) {
	defer close(c.done)
	c.log.Info("shutting down", "trigger", reason, "timeout", c.timeout)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	out, err := c.stopper.Close(ctx)

	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	if err != nil {
		c.log.Error("backend stop failed during shutdown", "trigger", reason, "error", err)
		return
	}
	c.log.Info("backend stopped for shutdown", "trigger", reason, "outcome", string(out))
}

// Done is closed once the triggered stop finished or its timeout elapsed.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

// Reason returns the trigger that started shutdown, empty before any trigger.
func (c *Coordinator) Reason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Err returns the stop error once Done is closed.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// WatchSignals routes SIGINT and SIGTERM into Trigger until ctx ends.
func (c *Coordinator) WatchSignals(ctx context.Context) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				if sig == syscall.SIGTERM {
					c.Trigger(SIGTERM)
				} else {
					c.Trigger(SIGINT)
				}
			}
		}
	}()
}
