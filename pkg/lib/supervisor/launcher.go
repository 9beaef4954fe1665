package supervisor

import (
	"errors"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

// Executable is a resolved backend binary.
type Executable struct {
	Path string
	Dir  string
	Args []string
	Env  []string
}

// Resolver locates the backend executable right before each launch.
type Resolver interface {
	Resolve() (Executable, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func() (Executable, error)

func (f ResolverFunc) Resolve() (Executable, error) { return f() }

// StaticResolver always returns the same executable.
type StaticResolver Executable

func (r StaticResolver) Resolve() (Executable, error) { return Executable(r), nil }

// RunnerLauncher launches real OS processes through the runner package.
type RunnerLauncher struct {
	OutputLimit int
	Sink        runner.Sink
}

func (l *RunnerLauncher) Launch(exe Executable) (Process, error) {
	h, err := runner.Launch(runner.LaunchOptions{
		Path:        exe.Path,
		Dir:         exe.Dir,
		Args:        exe.Args,
		Env:         exe.Env,
		OutputLimit: l.OutputLimit,
		Sink:        l.Sink,
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

var errNoResolver = errors.New("no backend executable configured")
