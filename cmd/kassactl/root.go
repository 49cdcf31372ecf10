package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/8gymsport-prog/penjualan/internal/config"
	"github.com/8gymsport-prog/penjualan/internal/store"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kassactl",
	Short: "Operator tooling for the Kassa Kilat point of sale",
	Long: `kassactl manages a Kassa Kilat deployment: it applies the database
schema, mints development tokens, changes user roles and renders sales
reports without going through the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// openStore loads the environment configuration and connects to Postgres.
func openStore(ctx context.Context) (*config.Config, *store.Store, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return cfg, db, nil
}
