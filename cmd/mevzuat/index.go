package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mevzuatlab/mevzuat/internal/log"
)

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the search indexes",
	}

	cmd.AddCommand(indexRebuildCmd())

	return cmd
}

func indexRebuildCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the keyword and vector indexes from stored documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			logger := log.Configure(cfg)

			client, err := buildClient(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Search.RebuildIndex(cmd.Context()); err != nil {
				return fmt.Errorf("rebuild index: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "index rebuilt")
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}
