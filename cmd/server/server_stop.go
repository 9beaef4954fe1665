package main

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *AgentServiceServer) StopServer(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	logger.Info("stop requested", "spiffe_id", callerID(ctx))
	outcome, err := s.supervisor.Stop(ctx)
	if err != nil {
		return nil, toStatusError("stop backend", err)
	}
	logger.Info("stop handled", "outcome", string(outcome))
	return wrapperspb.String(string(outcome)), nil
}
