package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lamim/poetforge/internal/config"
)

func newCounterCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
	)

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Print the number of poems archived so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadEnv(envFile, false)

			cfg, secrets, err := config.Load(resolveConfigPath(cmd, configPath))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			c, err := openCounter(ctx, cfg, secrets)
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Current(ctx)
			if err != nil {
				return fmt.Errorf("failed to read counter: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to environment file")

	return cmd
}
