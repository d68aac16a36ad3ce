package main

import (
	"database/sql"
	"fmt"
	"os"

	"farmlink-be/internal/config"
	"farmlink-be/internal/db"
	"farmlink-be/internal/logger"

	"github.com/spf13/cobra"
)

// openDBFunc is swapped in tests.
var openDBFunc = func(cfg *config.Config) (*sql.DB, error) {
	return db.NewDatabase(cfg)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Operations CLI for the farmlink backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newOrdersCmd())
	return root
}

// bootDB loads config, initialises logging and opens the database.
func bootDB() (*config.Config, *sql.DB, error) {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)

	database, err := openDBFunc(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}
