package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/emptypb"

	protov1 "github.com/abhk-odoo/odoo-printer-agent/api/v1"
)

func newIPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ip",
		Short: "Print the agent host's IPv4 address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), callTimeout, func(ctx context.Context, client protov1.AgentServiceClient) error {
				resp, err := client.GetIPAddress(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.GetValue())
				return nil
			})
		},
	}
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List USB devices attached to the agent host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), callTimeout, func(ctx context.Context, client protov1.AgentServiceClient) error {
				resp, err := client.ListUSBDevices(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				printDeviceTable(cmd.OutOrStdout(), protov1.DevicesFromList(resp))
				return nil
			})
		},
	}
}
