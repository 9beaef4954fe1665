package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/wrapperspb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/shutdown"
)

func newQuitCmd() *cobra.Command {
	var windowClosed bool
	cmd := &cobra.Command{
		Use:   "quit",
		Short: "Ask the agent to stop the backend and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trigger := shutdown.Quit
			if windowClosed {
				trigger = shutdown.WindowClosed
			}
			return withClient(cmd.Context(), callTimeout, func(ctx context.Context, client protov1.AgentServiceClient) error {
				if _, err := client.NotifyShutdown(ctx, wrapperspb.String(trigger)); err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "shutdown requested:", trigger)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&windowClosed, "window-closed", false, "report the shell window closing instead of an explicit quit")
	return cmd
}
