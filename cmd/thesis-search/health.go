// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/thesis-search/internal/logger"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the search service is up (GET /healthz)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(logger.FromContext(cmd.Context()))
		if err != nil {
			return err
		}
		status, err := client.Healthz(cmd.Context())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %t\n", status.OK)
		if !status.OK {
			return fmt.Errorf("service at %s reports not ok", client.BaseURL())
		}
		return nil
	},
}

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Check that the search index is loaded (GET /ready)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(logger.FromContext(cmd.Context()))
		if err != nil {
			return err
		}
		status, err := client.Ready(cmd.Context())
		if err != nil {
			return fmt.Errorf("readiness check failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mapping_ready: %t\n", status.MappingReady)
		if !status.MappingReady {
			return fmt.Errorf("service at %s is not ready", client.BaseURL())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(readyCmd)
}
