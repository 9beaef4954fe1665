package main

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/shutdown"
)

func (s *AgentServiceServer) GetIPAddress(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.ipAddress()), nil
}

func (s *AgentServiceServer) ListUSBDevices(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	return protov1.DevicesToList(s.devices.ListDevices(ctx)), nil
}

// NotifyShutdown lets the window shell deliver its lifecycle events.
func (s *AgentServiceServer) NotifyShutdown(ctx context.Context, trigger *wrapperspb.StringValue) (*emptypb.Empty, error) {
	switch reason := trigger.GetValue(); reason {
	case shutdown.WindowClosed, shutdown.Quit:
		logger.Info("shutdown notified", "trigger", reason, "spiffe_id", callerID(ctx))
		s.shutdown.Trigger(reason)
		return &emptypb.Empty{}, nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown shutdown trigger %q; want %q or %q", reason, shutdown.WindowClosed, shutdown.Quit)
	}
}
