package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newSeededEnforcer(t *testing.T, db *gorm.DB) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, e.SeedDefaultPolicies())
	return e
}

func TestEnforcer_DefaultPolicies(t *testing.T) {
	e := newSeededEnforcer(t, setupTestDB(t))

	tests := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{"admin", ResourceLead, ActionDelete, true},
		{"manager", ResourceLead, ActionDelete, true},
		{"seller", ResourceLead, ActionDelete, false},
		{"seller", ResourceLead, ActionCreate, true},
		{"admin", ResourceUser, ActionCreate, true},
		{"admin", ResourceUser, ActionDelete, true},
		{"manager", ResourceUser, ActionCreate, false},
		{"manager", ResourceUser, ActionDelete, false},
		{"seller", ResourceUser, ActionDelete, false},
		{"manager", ResourceSubscription, ActionCancel, false},
		{"", ResourceLead, ActionRead, false},
		{"owner", ResourceLead, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.resource+":"+tt.action, func(t *testing.T) {
			allowed, err := e.Enforce(tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestEnforcer_SeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	newSeededEnforcer(t, db)
	newSeededEnforcer(t, db)

	var count int64
	require.NoError(t, db.Table("casbin_rule").Count(&count).Error)
	assert.Equal(t, int64(len(DefaultPolicies())), count)
}

func TestEnforcer_SeedKeepsOperatorGrants(t *testing.T) {
	db := setupTestDB(t)
	first := newSeededEnforcer(t, db)
	require.NoError(t, first.AddPolicy("seller", ResourceLead, ActionDelete))

	second := newSeededEnforcer(t, db)

	allowed, err := second.Enforce("seller", ResourceLead, ActionDelete)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestEnforcer_LoadPolicyPicksUpRemoval(t *testing.T) {
	db := setupTestDB(t)
	reader := newSeededEnforcer(t, db)
	writer := newSeededEnforcer(t, db)

	require.NoError(t, writer.RemovePolicy("manager", ResourceLead, ActionDelete))

	allowed, err := reader.Enforce("manager", ResourceLead, ActionDelete)
	require.NoError(t, err)
	assert.True(t, allowed, "stale until reloaded")

	require.NoError(t, reader.LoadPolicy())
	allowed, err = reader.Enforce("manager", ResourceLead, ActionDelete)
	require.NoError(t, err)
	assert.False(t, allowed)
}
