package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/database"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/logging"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/services"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:          "manage",
		Short:        "Maintenance commands for the student onboarding backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			logging.Setup(cfg.Debug, cfg.LogFile)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := database.Connect(cfg); err != nil {
				return err
			}
			return database.Migrate(database.DB)
		},
	}

	root.AddCommand(
		newMigrateCmd(),
		newCreateAdminCmd(func() *config.Config { return cfg }),
		newPurgeLogsCmd(func() *config.Config { return cfg }),
		newExportCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPreRunE already migrated.
			slog.Info("migrations applied")
			return nil
		},
	}
}

func newCreateAdminCmd(cfg func() *config.Config) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "createadmin",
		Short: "Create a staff account for the admin console, or reset its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			authService := services.NewAuthService(database.DB, cfg(), nil)
			user, err := authService.UpsertStaff(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			slog.Info("staff account ready", "user_id", user.ID, "email", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Staff email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPurgeLogsCmd(cfg func() *config.Config) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge-logs",
		Short: "Delete stored error logs older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = cfg().LogRetentionDays
			}
			deleted, err := logging.Purge(database.DB, time.Now().AddDate(0, 0, -days))
			if err != nil {
				return err
			}
			slog.Info("old logs purged", "deleted", deleted, "retention_days", days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (default: LOG_RETENTION_DAYS)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var output string
	var completeOnly bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write student profiles to a .csv or .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var write func(io.Writer, [][]string) error
			switch strings.ToLower(filepath.Ext(output)) {
			case ".csv":
				write = services.WriteCSV
			case ".xlsx":
				write = services.WriteXLSX
			default:
				return fmt.Errorf("unsupported export format %q, use .csv or .xlsx", filepath.Ext(output))
			}
			return runExport(cmd.Context(), output, completeOnly, write)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Destination file (required)")
	cmd.Flags().BoolVar(&completeOnly, "complete", false, "Only export submitted profiles")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runExport(ctx context.Context, output string, completeOnly bool, write func(io.Writer, [][]string) error) error {
	var f services.ProfileFilter
	if completeOnly {
		f.IsComplete = &completeOnly
	}
	rows, err := services.NewAdminService(database.DB).ExportRows(ctx, f)
	if err != nil {
		return err
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := write(file, rows); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	slog.Info("profiles exported", "path", output, "rows", len(rows)-1)
	return nil
}
