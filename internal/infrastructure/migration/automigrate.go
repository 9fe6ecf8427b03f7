package migration

import (
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PlanModel{},
		&models.CompanyModel{},
		&models.UserModel{},
		&models.SubscriptionModel{},
		&models.LeadModel{},
		&models.StoredFileModel{},
	}
}
