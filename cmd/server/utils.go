package main

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/supervisor"
)

// toStatusError maps supervisor errors onto gRPC codes.
func toStatusError(op string, err error) error {
	var spawnErr *runner.SpawnError
	switch {
	case errors.As(err, &spawnErr):
		return status.Errorf(codes.FailedPrecondition, "%s: %v", op, err)
	case errors.Is(err, supervisor.ErrTransitionInProgress):
		return status.Errorf(codes.Aborted, "%s: %v", op, err)
	case errors.Is(err, supervisor.ErrShuttingDown):
		return status.Errorf(codes.Unavailable, "%s: %v", op, err)
	case errors.Is(err, supervisor.ErrNotRunning):
		return status.Errorf(codes.NotFound, "%s: %v", op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s: %v", op, err)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s: %v", op, err)
	default:
		return status.Errorf(codes.Internal, "%s: %v", op, err)
	}
}
