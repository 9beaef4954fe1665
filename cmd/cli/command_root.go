package main

import "github.com/spf13/cobra"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prn",
		Short:         "Printer agent CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newIPCmd())
	root.AddCommand(newDevicesCmd())
	root.AddCommand(newRunningCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newStartCmd())
	root.AddCommand(newStopCmd())
	root.AddCommand(newLogsCmd())
	root.AddCommand(newQuitCmd())

	return root
}
