// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/config/configload"
)

// NewCommand returns the root command of a service binary. The command loads
// the configuration, assembles the service and runs it until SIGINT or
// SIGTERM.
func NewCommand(buildInfo component.BuildInfo, factories component.Factories) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          buildInfo.Command,
		Version:      buildInfo.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return errors.New("--config flag is required")
			}

			cfg, err := configload.Load(configPath, factories)
			if err != nil {
				return err
			}

			svc, err := New(Settings{
				BuildInfo: buildInfo,
				Factories: factories,
				Config:    cfg,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return svc.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the configuration file")
	return cmd
}
