package migration

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose scripts for every environment except development,
// which may opt into gorm AutoMigrate.
func NewManager(environment, driver string, autoMigrate bool, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	if strings.EqualFold(environment, constants.EnvDevelopment) && autoMigrate {
		strategy = NewGormAutoMigrateStrategy(log)
	} else {
		g, err := NewGooseStrategy(driver, log)
		if err != nil {
			return nil, err
		}
		strategy = g
	}
	return NewManagerWithStrategy(strategy, log), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(ctx, db); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// Versioned returns the goose strategy when the manager uses one, for the
// down and status commands.
func (m *Manager) Versioned() (*GooseStrategy, error) {
	g, ok := m.strategy.(*GooseStrategy)
	if !ok {
		return nil, fmt.Errorf("strategy %s does not track versions", m.strategy.GetName())
	}
	return g, nil
}
