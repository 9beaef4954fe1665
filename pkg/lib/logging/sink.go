package logging

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

var _ runner.Sink = (*Sink)(nil)

// Sink records backend lifecycle events and output. Lifecycle goes to slog;
// output lines go to slog at debug level and, when console is set, to a
// colored per-launch console logger.
type Sink struct {
	log     *slog.Logger
	console bool

	mu       sync.Mutex
	consoles map[string]*logger.Logger
}

// NewSink returns a sink writing to log.
func NewSink(log *slog.Logger, console bool) *Sink {
	return &Sink{
		log:      log.With("component", "backend"),
		console:  console,
		consoles: make(map[string]*logger.Logger),
	}
}

func (s *Sink) Launched(id string, pid int, path string) {
	s.log.Info("backend launched", "launch_id", id, "pid", pid, "path", path)
	if !s.console {
		return
	}
	l := logger.NewLogger(coloransi.Color(coloransi.Black, coloransi.Cyan, "backend-"+strconv.Itoa(pid)))
	s.mu.Lock()
	s.consoles[id] = l
	s.mu.Unlock()
	l.Infoln("launched", path)
}

func (s *Sink) Output(id string, stream string, chunk []byte) {
	lines := splitLines(chunk)
	for _, line := range lines {
		s.log.Debug("backend output", "launch_id", id, "stream", stream, "line", line)
	}

	l := s.consoleFor(id)
	if l == nil {
		return
	}
	for _, line := range lines {
		if stream == runner.StreamStderr {
			l.Infoln(coloransi.Foreground(coloransi.Red, line))
			continue
		}
		l.Infoln(line)
	}
}

func (s *Sink) Exited(id string, pid int, status lib.ExitStatus) {
	s.log.Info("backend exited", "launch_id", id, "pid", pid, "status", status.String())
	l := s.consoleFor(id)
	if l == nil {
		return
	}
	l.Infoln("exited:", status.String())
	s.mu.Lock()
	delete(s.consoles, id)
	s.mu.Unlock()
}

func (s *Sink) SpawnFailed(path string, err error) {
	s.log.Error("backend spawn failed", "path", path, "error", err)
}

func (s *Sink) consoleFor(id string) *logger.Logger {
	if !s.console {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consoles[id]
}

func splitLines(chunk []byte) []string {
	text := strings.TrimRight(string(chunk), "\r\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
