package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "printer-agent",
		Short:         "Supervise the printer backend and report attached USB devices",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVar(&configPath, "config", os.Getenv(config.EnvConfig), "path to the YAML config file (env "+config.EnvConfig+")")

	return root
}
