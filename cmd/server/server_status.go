package main

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
)

func (s *AgentServiceServer) IsServerRunning(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.supervisor.IsRunning()), nil
}

func (s *AgentServiceServer) GetServerStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return protov1.StatusToStruct(s.supervisor.Status()), nil
}
