package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
)

type mockCompanyRepository struct {
	created    []*company.Company
	ExistsFunc func(ctx context.Context, slug string) (bool, error)
	CreateErr  error
}

func (m *mockCompanyRepository) Create(ctx context.Context, c *company.Company) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.created = append(m.created, c)
	return c.SetID(uint(len(m.created)))
}

func (m *mockCompanyRepository) GetByID(ctx context.Context, id uint) (*company.Company, error) {
	return nil, nil
}

func (m *mockCompanyRepository) GetBySlug(ctx context.Context, slug string) (*company.Company, error) {
	return nil, nil
}

func (m *mockCompanyRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, slug)
	}
	return false, nil
}

type mockUserRepository struct {
	created        []*user.User
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	ExistsFunc     func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.created = append(m.created, u)
	return u.SetID(uint(len(m.created) + 100))
}

func (m *mockUserRepository) GetByID(ctx context.Context, companyID, id uint) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) ListByCompany(ctx context.Context, companyID uint) ([]*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	return nil
}

type mockPlanRepository struct {
	plans map[string]*subscription.Plan
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *subscription.Plan) error { return nil }

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	for _, p := range m.plans {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPlanRepository) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	return m.plans[slug], nil
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *subscription.Plan) error { return nil }

func (m *mockPlanRepository) Delete(ctx context.Context, id uint) error { return nil }

func (m *mockPlanRepository) List(ctx context.Context, filter subscription.PlanFilter) ([]*subscription.Plan, error) {
	return nil, nil
}

type mockSubscriptionRepository struct {
	created      []*subscription.Subscription
	activeExists bool
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	m.created = append(m.created, sub)
	return sub.SetID(uint(len(m.created) + 500))
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) GetCurrentByCompanyID(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByGatewaySubscriptionID(ctx context.Context, gatewayID string) (*subscription.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	return nil
}

func (m *mockSubscriptionRepository) ExistsActiveForCompany(ctx context.Context, companyID uint) (bool, error) {
	return m.activeExists, nil
}

func (m *mockSubscriptionRepository) FindLapsedTrials(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) FindLapsedPayments(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) FindEndedPeriods(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) ListCompanyIDsByPlanID(ctx context.Context, planID uint) ([]uint, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) CountByPlanID(ctx context.Context, planID uint) (int64, error) {
	return 0, nil
}

// inlineTransactor runs fn without a database.
type inlineTransactor struct{}

func (inlineTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockHasher struct{}

func (mockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (mockHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type mockTokenIssuer struct {
	expiresAt time.Time
}

func (m mockTokenIssuer) Issue(userID, companyID uint, role string) (string, time.Time, error) {
	return "token", m.expiresAt, nil
}

type mockInvalidator struct {
	ids []uint
}

func (m *mockInvalidator) InvalidateStatus(_ context.Context, companyID uint) {
	m.ids = append(m.ids, companyID)
}
