package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pantry/config"
	"github.com/shashiranjanraj/pantry/database/seeders"
	"github.com/shashiranjanraj/pantry/pkg/database"
	"github.com/shashiranjanraj/pantry/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// pantry migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		ran, err := migration.New(database.DB).Run()
		for _, name := range ran {
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated: %s\n", name)
		}
		if err == nil && len(ran) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
		}
		return err
	},
}

// pantry migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		rolled, err := migration.New(database.DB).Rollback()
		for _, name := range rolled {
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back: %s\n", name)
		}
		if err == nil && len(rolled) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to rollback.")
		}
		return err
	},
}

// pantry migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		rows, err := migration.New(database.DB).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, row := range rows {
			ran, batch := "No", "-"
			if row.Ran {
				ran, batch = "Yes", fmt.Sprint(row.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, row.Name)
		}
		return w.Flush()
	},
}

// pantry seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		ran, err := seeders.RunAll(database.DB)
		for _, name := range ran {
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded: %s\n", name)
		}
		return err
	},
}
