package main

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logger := newLogger(cfg.Server.LogLevel)

		db, err := database.NewConnection(&cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		return db.Migrate(ctx)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
