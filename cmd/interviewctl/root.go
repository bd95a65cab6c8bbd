package main

import (
	"fmt"

	"mockprep/interview/internal/config"
	"mockprep/interview/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "interviewctl",
		Short:         "Maintenance commands for the interview service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("db-driver", "", "Database driver, postgres or sqlite (overrides DB_DRIVER)")
	root.PersistentFlags().String("dsn", "", "Database DSN or sqlite path (overrides the POSTGRES_* and SQLITE_PATH variables)")
	root.PersistentFlags().Bool("verbose", false, "Log progress to stderr")

	root.AddCommand(newSeedRolesCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newReportCmd())
	return root
}

// env holds what every subcommand needs.
type env struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger
}

// openEnv loads configuration, applies flag overrides and opens a migrated
// database.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if driver, _ := cmd.Flags().GetString("db-driver"); driver != "" {
		cfg.DBDriver = driver
	}
	dsn := cfg.DatabaseDSN()
	if override, _ := cmd.Flags().GetString("dsn"); override != "" {
		dsn = override
	}

	db, err := store.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logger := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}
	return &env{cfg: cfg, db: db, logger: logger}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
}
