package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/config"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/database"
	httpRouter "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/biztime"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

var (
	env     string
	timeout time.Duration
)

// NewCommand runs the subscription sweep once, for cron-driven deployments
// that keep the in-process scheduler off.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Expire lapsed trials, flag overdue subscriptions and end cancelled periods once",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Abort the sweep after this long")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	container, err := httpRouter.NewContainer(ctx, database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	lapsed, err := container.Reconciler().Run(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}
	ended, err := container.PeriodEndCanceller().Run(ctx)
	if err != nil {
		return fmt.Errorf("period-end cancellation failed: %w", err)
	}

	out, err := json.MarshalIndent(dto.ReconcileReportDTO{
		Lapsed:    toResultDTO(lapsed),
		PeriodEnd: toResultDTO(ended),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if lapsed.Incomplete() || ended.Incomplete() {
		return fmt.Errorf("%d subscriptions failed and %d were skipped",
			lapsed.Failed+ended.Failed, lapsed.Skipped+ended.Skipped)
	}
	return nil
}

func toResultDTO(r *usecases.ReconcileResult) dto.ReconcileResultDTO {
	return dto.ReconcileResultDTO{
		Scanned:   r.Scanned,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Skipped:   r.Skipped,
	}
}
