package main

import (
	"fmt"

	"farmlink-be/internal/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "./migrations", "directory holding the .sql migrations")

	// marketctl migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := bootDB()
			if err != nil {
				return err
			}
			defer database.Close()

			applied, err := db.NewMigrator(database, dir).Up(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", v)
			}
			return nil
		},
	})

	// marketctl migrate down
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := bootDB()
			if err != nil {
				return err
			}
			defer database.Close()

			version, err := db.NewMigrator(database, dir).Down(cmd.Context())
			if err != nil {
				return err
			}
			if version == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations to roll back.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %s\n", version)
			return nil
		},
	})

	return cmd
}
