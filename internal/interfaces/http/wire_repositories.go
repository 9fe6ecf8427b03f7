package http

import (
	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/storedfile"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/repository"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	companyRepo      company.Repository
	userRepo         user.Repository
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	usageAggregator  subscription.UsageAggregator
	leadRepo         lead.Repository
	fileRepo         storedfile.Repository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		companyRepo:      repository.NewCompanyRepository(db, log),
		userRepo:         repository.NewUserRepository(db, log),
		planRepo:         repository.NewPlanRepository(db, log),
		subscriptionRepo: repository.NewSubscriptionRepository(db, log),
		usageAggregator:  repository.NewUsageAggregator(db, log),
		leadRepo:         repository.NewLeadRepository(db, log),
		fileRepo:         repository.NewStoredFileRepository(db, log),
	}
}
