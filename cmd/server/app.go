package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/config"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/hostinfo"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/logging"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/output_storage"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/shutdown"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/supervisor"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/usbenum"
)

// serveFailed is the shutdown trigger used when the listener dies under us.
const serveFailed = "serve-failed"

// run wires the agent and blocks until a shutdown trigger has stopped the backend.
func run(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.Logging)
	logger = log.With("component", "server")
	runner.SetLogger(log)
	output_storage.SetLogger(log)

	agentDir := config.AgentDir()
	sup := supervisor.New(supervisor.Options{
		Resolver: supervisor.ResolverFunc(func() (supervisor.Executable, error) {
			return supervisor.Executable{Path: cfg.Backend.Executable(agentDir), Args: cfg.Backend.Args}, nil
		}),
		Launcher: &supervisor.RunnerLauncher{
			OutputLimit: cfg.Backend.OutputBufferBytes,
			Sink:        logging.NewSink(log, cfg.Logging.Console),
		},
		GracePeriod: cfg.Backend.GracePeriod,
		Logger:      log,
	})

	coord := shutdown.New(sup, cfg.Shutdown.Timeout, log)
	coord.WatchSignals(ctx)

	devices := usbenum.New(usbenum.OpenUSB, cfg.USB.Workers, log)
	srv := NewAgentServiceServer(sup, devices, coord, hostinfo.IPAddress)

	g, err := NewGRPCServer(cfg.Server, srv)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	log.Info("agent listening", "address", g.Addr().String(), "tls", cfg.Server.TLS.Enabled())

	serveErr := make(chan error, 1)
	go func() { serveErr <- g.Serve() }()

	if cfg.Backend.Autostart {
		go autostart(ctx, sup, log)
	}

	var failure error
	select {
	case <-coord.Done():
	case err := <-serveErr:
		failure = fmt.Errorf("failed to serve: %w", err)
		coord.Trigger(serveFailed)
		<-coord.Done()
	}

	g.Stop()
	log.Info("agent stopped", "trigger", coord.Reason())
	if failure != nil {
		return failure
	}
	return coord.Err()
}

func autostart(ctx context.Context, sup *supervisor.Supervisor, log *slog.Logger) {
	outcome, err := sup.Start(ctx)
	if errors.Is(err, supervisor.ErrShuttingDown) {
		log.Info("backend autostart skipped, agent is shutting down")
		return
	}
	if err != nil {
		log.Error("backend autostart failed", "error", err)
		return
	}
	log.Info("backend autostart", "outcome", string(outcome))
}
