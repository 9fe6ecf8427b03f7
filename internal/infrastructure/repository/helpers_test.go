package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

var baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.PlanModel{},
		&models.CompanyModel{},
		&models.UserModel{},
		&models.SubscriptionModel{},
		&models.LeadModel{},
		&models.StoredFileModel{},
	)
	require.NoError(t, err)
	return db
}

func insertSubscription(t *testing.T, db *gorm.DB, m models.SubscriptionModel) uint {
	t.Helper()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = baseTime
		m.UpdatedAt = baseTime
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

func timePtr(t time.Time) *time.Time { return &t }

func int64Ptr(v int64) *int64 { return &v }
