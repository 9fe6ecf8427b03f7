package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/config"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/database"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/migration"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the goose migration scripts for the configured database driver.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func initEnv() (*migration.GooseStrategy, *gorm.DB, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mgr, err := migration.NewManager(env, cfg.Database.Driver, false, log)
	if err != nil {
		_ = database.Close()
		return nil, nil, nil, fmt.Errorf("failed to create migration manager: %w", err)
	}
	goose, err := mgr.Versioned()
	if err != nil {
		_ = database.Close()
		return nil, nil, nil, err
	}

	return goose, database.Get(), log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	goose, db, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := goose.Migrate(cmd.Context(), db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	goose, db, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := goose.MigrateDown(cmd.Context(), db, steps); err != nil {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}

	log.Infow("rollback completed successfully", "steps", steps)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	goose, db, _, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()

	version, err := goose.GetVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "current version: %d\n", version)

	return goose.Status(ctx, db)
}
