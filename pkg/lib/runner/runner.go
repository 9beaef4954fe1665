package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/output_storage"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger replaces the package logger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l.With("component", "runner")
	}
}

const (
	// DefaultGracePeriod is how long Terminate waits after SIGTERM before escalating.
	DefaultGracePeriod = 5 * time.Second
	// KillTimeout bounds the wait after SIGKILL.
	KillTimeout = 5 * time.Second
	// waitDelay bounds how long Wait keeps draining pipes that a surviving
	// grandchild still holds open after the child itself exited.
	waitDelay = 2 * time.Second
)

var (
	// ErrKillFailed is returned when the process tree survives SIGKILL.
	ErrKillFailed = errors.New("process did not exit after SIGKILL")
	// ErrTerminationTimeout is logged when the grace period elapses before exit.
	ErrTerminationTimeout = errors.New("process did not exit within grace period")
)

// SpawnError reports that the backend executable could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Sink receives diagnostics about launched processes. Implementations must be safe
// for concurrent use; Output is called from one goroutine per stream.
type Sink interface {
	Launched(id string, pid int, path string)
	Output(id string, stream string, chunk []byte)
	Exited(id string, pid int, status lib.ExitStatus)
	SpawnFailed(path string, err error)
}

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) Launched(string, int, string)       {}
func (NopSink) Output(string, string, []byte)      {}
func (NopSink) Exited(string, int, lib.ExitStatus) {}
func (NopSink) SpawnFailed(string, error)          {}

// Stream names passed to Sink.Output.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// LaunchOptions describes the executable to start.
type LaunchOptions struct {
	Path string
	// Dir defaults to the directory containing Path.
	Dir  string
	Args []string
	// Env entries are appended to the agent's environment.
	Env []string
	// OutputLimit bounds the bytes retained per stream for replay.
	OutputLimit int
	Sink        Sink
}

// Handle wraps one launched child process.
type Handle struct {
	id      string
	path    string
	dir     string
	cmd     *exec.Cmd
	pid     int
	started time.Time
	sink    Sink

	stdout *output_storage.OutputStorage
	stderr *output_storage.OutputStorage

	// done is closed exactly once, after running flips to false.
	done chan struct{}

	mu      sync.RWMutex
	running bool
	exit    *lib.ExitStatus
	ended   time.Time

	termMu sync.Mutex
	term   *termination
}

// TerminationOutcome tells how Terminate resolved.
type TerminationOutcome int

const (
	// Terminated means the process exited within the grace period.
	Terminated TerminationOutcome = iota
	// Killed means the grace period elapsed and SIGKILL was needed.
	Killed
	// NotRunning means the process had already exited.
	NotRunning
)

func (o TerminationOutcome) String() string {
	switch o {
	case Terminated:
		return "terminated"
	case Killed:
		return "killed"
	case NotRunning:
		return "not_running"
	default:
		return "unknown"
	}
}

type TerminationResult struct {
	Outcome TerminationOutcome
	Exit    *lib.ExitStatus
}
