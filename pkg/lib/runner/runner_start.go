package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/output_storage"
)

// Launch starts the executable as a detached child and returns its handle.
// A missing or non-executable path is reported as *SpawnError before anything is started.
func Launch(opts LaunchOptions) (*Handle, error) {
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}

	if err := checkExecutable(opts.Path); err != nil {
		sink.SpawnFailed(opts.Path, err)
		return nil, &SpawnError{Path: opts.Path, Err: err}
	}

	dir := opts.Dir
	if dir == "" {
		dir = filepath.Dir(opts.Path)
	}

	cmd := exec.Command(opts.Path, opts.Args...)
	cmd.Dir = dir
	if opts.Env != nil {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.SysProcAttr = detachedSysProcAttr()
	cmd.WaitDelay = waitDelay

	stdout := output_storage.NewOutputStorage(opts.OutputLimit)
	stderr := output_storage.NewOutputStorage(opts.OutputLimit)

	// cmd.Stdin is left nil, so it will use /dev/null
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	h := &Handle{
		id:     lib.NewID(),
		path:   opts.Path,
		dir:    dir,
		cmd:    cmd,
		sink:   sink,
		stdout: stdout,
		stderr: stderr,
		done:   make(chan struct{}),
	}

	// Subscribe before Start so the sink sees every chunk even if the
	// retained window is trimmed before the pumps get scheduled.
	stdoutCh := stdout.Subscribe(context.Background(), 16)
	stderrCh := stderr.Subscribe(context.Background(), 16)

	logger.Info("starting process", "id", h.id, "path", opts.Path, "dir", dir)
	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		logger.Error("failed to start process", "id", h.id, "error", err)
		sink.SpawnFailed(opts.Path, err)
		return nil, &SpawnError{Path: opts.Path, Err: err}
	}

	h.pid = cmd.Process.Pid
	h.started = time.Now()
	h.running = true

	sink.Launched(h.id, h.pid, opts.Path)
	logger.Info("process started", "id", h.id, "pid", h.pid)

	go h.pump(StreamStdout, stdoutCh)
	go h.pump(StreamStderr, stderrCh)
	go h.wait()

	return h, nil
}

func (h *Handle) pump(stream string, ch <-chan []byte) {
	for chunk := range ch {
		h.sink.Output(h.id, stream, chunk)
	}
}

// wait records the exit status and closes done. The pumps finish on their own once
// the storages are closed and drained.
func (h *Handle) wait() {
	err := h.cmd.Wait()
	status := exitStatusFrom(err)

	h.stdout.Close()
	h.stderr.Close()

	h.mu.Lock()
	h.running = false
	h.exit = &status
	h.ended = time.Now()
	h.mu.Unlock()

	logger.Info("process exited", "id", h.id, "pid", h.pid, "status", status.String())
	h.sink.Exited(h.id, h.pid, status)

	close(h.done)
}

func exitStatusFrom(err error) lib.ExitStatus {
	if err == nil {
		code := 0
		return lib.ExitStatus{Code: &code}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return lib.ExitStatus{Signal: unix.SignalName(ws.Signal())}
		}
		code := exitErr.ExitCode()
		return lib.ExitStatus{Code: &code}
	}

	return lib.ExitStatus{Err: err}
}

func checkExecutable(path string) error {
	if path == "" {
		return errors.New("executable path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("%s is not executable: %w", path, err)
	}
	return nil
}
