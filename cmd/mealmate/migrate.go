package main

import (
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/mealmate/internal/app"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, ctx, func(p *goose.Provider) error {
				results, err := p.Up(cmd.Context())
				if err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "Schema is up to date")
					return nil
				}
				for _, r := range results {
					fmt.Fprintf(out, "Applied %d %s (%s)\n", r.Source.Version, r.Source.Path, r.Duration)
				}
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, ctx, func(p *goose.Provider) error {
				r, err := p.Down(cmd.Context())
				if err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d %s\n", r.Source.Version, r.Source.Path)
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, ctx, func(p *goose.Provider) error {
				statuses, err := p.Status(cmd.Context())
				if err != nil {
					return fmt.Errorf("migrate status: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Version", "State", "Applied At", "Path"},
					migrationRows(statuses),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	})

	return migrateCmd
}

func withMigrator(cmd *cobra.Command, ctx *commandContext, fn func(*goose.Provider) error) error {
	pool, err := ctx.ensurePool(cmd.Context())
	if err != nil {
		return err
	}
	provider, closeDB, err := app.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(provider)
}

func migrationRows(statuses []*goose.MigrationStatus) [][]string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		applied := "-"
		if s.State == goose.StateApplied && !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.Source.Version, 10),
			string(s.State),
			applied,
			s.Source.Path,
		})
	}
	return rows
}
