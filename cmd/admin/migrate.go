package main

import (
	"database/sql"
	"fmt"
	"log"
	"text/tabwriter"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-intel/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intel/pkg/config"
)

var migrateDownSteps int

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the embedded SQL migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(sqlDB *sql.DB) error {
				log.Println("🔄 Applying migrations...")
				n, err := database.Migrate(sqlDB, migrate.Up, 0)
				if err != nil {
					return err
				}
				log.Printf("✅ Successfully applied %d migration(s)!\n", n)
				return nil
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrateDownSteps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withDB(func(sqlDB *sql.DB) error {
				log.Printf("⏪ Rolling back %d migration(s)...", migrateDownSteps)
				n, err := database.Migrate(sqlDB, migrate.Down, migrateDownSteps)
				if err != nil {
					return err
				}
				log.Printf("✅ Rolled back %d migration(s)", n)
				return nil
			})
		},
	}
	down.Flags().IntVar(&migrateDownSteps, "steps", 1, "Number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "List migrations and when they were applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(sqlDB *sql.DB) error {
				records, err := database.MigrationStatus(sqlDB)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tAPPLIED AT")
				for _, r := range records {
					applied := "pending"
					if r.AppliedAt != nil {
						applied = r.AppliedAt.Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(w, "%s\t%s\n", r.ID, applied)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

// withDB opens the configured database for the duration of fn
func withDB(fn func(*sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.CloseDB(db)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return fn(sqlDB)
}
