package main

import (
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

func (s *AgentServiceServer) StreamServerOutput(_ *emptypb.Empty, streaming grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := streaming.Context()
	stdout, stderr, err := s.supervisor.Output(ctx)
	if err != nil {
		return toStatusError("subscribe to output", err)
	}

	for {
		if stdout == nil && stderr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			if err := streaming.Send(protov1.OutputChunk(runner.StreamStdout, chunk)); err != nil {
				return err
			}
		case chunk, ok := <-stderr:
			if !ok {
				stderr = nil
				continue
			}
			if err := streaming.Send(protov1.OutputChunk(runner.StreamStderr, chunk)); err != nil {
				return err
			}
		}
	}
}
