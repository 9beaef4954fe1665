package main

import (
	"context"
	"io"
	"log/slog"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Supervisor is the backend lifecycle the service exposes.
type Supervisor interface {
	Start(ctx context.Context) (lib.StartOutcome, error)
	Stop(ctx context.Context) (lib.StopOutcome, error)
	IsRunning() bool
	Status() lib.ServerStatus
	Output(ctx context.Context) (<-chan []byte, <-chan []byte, error)
}

// DeviceLister reports attached USB devices.
type DeviceLister interface {
	ListDevices(ctx context.Context) []lib.DeviceRecord
}

// ShutdownTrigger starts agent shutdown.
type ShutdownTrigger interface {
	Trigger(reason string)
}

type AgentServiceServer struct {
	protov1.UnimplementedAgentServiceServer
	supervisor Supervisor
	devices    DeviceLister
	shutdown   ShutdownTrigger
	ipAddress  func() string
}

func NewAgentServiceServer(sup Supervisor, devices DeviceLister, shutdown ShutdownTrigger, ipAddress func() string) *AgentServiceServer {
	return &AgentServiceServer{
		supervisor: sup,
		devices:    devices,
		shutdown:   shutdown,
		ipAddress:  ipAddress,
	}
}
