package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/emptypb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/runner"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream backend output (stdout/stderr) from the retained beginning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			return withClient(ctx, 0, func(ctx context.Context, client protov1.AgentServiceClient) error {
				stream, err := client.StreamServerOutput(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				for {
					msg, err := stream.Recv()
					if err == io.EOF {
						return nil
					}
					if err != nil {
						return err
					}

					w := cmd.OutOrStdout()
					name, data := protov1.ParseOutputChunk(msg)
					if name == runner.StreamStderr {
						w = cmd.ErrOrStderr()
					}
					if _, err := io.WriteString(w, data); err != nil {
						return err
					}
				}
			})
		},
	}
	return cmd
}
