// Package main is the entry point for the mevzuat CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mevzuatlab/mevzuat"
	"github.com/mevzuatlab/mevzuat/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mevzuat",
		Short: "Turkish legislation search server",
		Long:  `Mevzuat indexes Turkish legal documents and provides hybrid keyword and semantic search over their articles.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(searchCmd())
	cmd.AddCommand(indexCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from a .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.AppConfig{}, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildClient constructs a mevzuat client from the resolved configuration.
func buildClient(cfg config.AppConfig, logger *slog.Logger) (*mevzuat.Client, error) {
	client, err := mevzuat.New(
		mevzuat.WithConfig(cfg),
		mevzuat.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create mevzuat client: %w", err)
	}
	return client, nil
}
