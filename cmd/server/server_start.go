package main

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *AgentServiceServer) StartServer(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	logger.Info("start requested", "spiffe_id", callerID(ctx))
	outcome, err := s.supervisor.Start(ctx)
	if err != nil {
		return nil, toStatusError("start backend", err)
	}
	logger.Info("start handled", "outcome", string(outcome))
	return wrapperspb.String(string(outcome)), nil
}
