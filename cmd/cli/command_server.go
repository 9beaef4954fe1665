package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the backend server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), callTimeout, func(ctx context.Context, client protov1.AgentServiceClient) error {
				resp, err := client.StartServer(ctx, &emptypb.Empty{})
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.GetValue())
				return nil
			})
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the backend server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), callTimeout, func(ctx context.Context, client protov1.AgentServiceClient) error {
				resp, err := client.StopServer(ctx, &emptypb.Empty{})
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.GetValue())
				return nil
			})
		},
	}
}

func newRunningCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "running",
		Short: "Print whether the backend server is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), callTimeout, func(ctx context.Context, client protov1.AgentServiceClient) error {
				resp, err := client.IsServerRunning(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.GetValue())
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the backend server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), callTimeout, func(ctx context.Context, client protov1.AgentServiceClient) error {
				resp, err := client.GetServerStatus(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				if asJSON {
					out, err := protojson.MarshalOptions{Multiline: true}.Marshal(resp)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(out))
					return nil
				}
				printStatusTable(cmd.OutOrStdout(), protov1.StatusFromStruct(resp))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw status as JSON")
	return cmd
}

// explain turns the agent's lifecycle codes into readable errors.
func explain(err error) error {
	switch grpcCode(err) {
	case codes.FailedPrecondition:
		return fmt.Errorf("backend could not be started: %w", err)
	case codes.Aborted:
		return fmt.Errorf("backend is still stopping, retry shortly: %w", err)
	case codes.PermissionDenied:
		_, _ = fmt.Fprintln(os.Stderr, "Forbidden. This client may not change the backend state.")
		return err
	default:
		return err
	}
}
