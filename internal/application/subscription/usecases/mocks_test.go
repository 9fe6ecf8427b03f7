package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
)

type mockSubscriptionRepository struct {
	CreateFunc                     func(ctx context.Context, sub *subscription.Subscription) error
	GetByIDFunc                    func(ctx context.Context, id uint) (*subscription.Subscription, error)
	GetCurrentByCompanyIDFunc      func(ctx context.Context, companyID uint) (*subscription.Subscription, error)
	GetByGatewaySubscriptionIDFunc func(ctx context.Context, gatewayID string) (*subscription.Subscription, error)
	UpdateFunc                     func(ctx context.Context, sub *subscription.Subscription) error
	ExistsActiveForCompanyFunc     func(ctx context.Context, companyID uint) (bool, error)
	FindLapsedTrialsFunc           func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error)
	FindLapsedPaymentsFunc         func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error)
	FindEndedPeriodsFunc           func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error)
	ListCompanyIDsByPlanIDFunc     func(ctx context.Context, planID uint) ([]uint, error)
	CountByPlanIDFunc              func(ctx context.Context, planID uint) (int64, error)

	getCurrentCalls atomic.Int32
	updateCalls     atomic.Int32
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetCurrentByCompanyID(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
	m.getCurrentCalls.Add(1)
	if m.GetCurrentByCompanyIDFunc != nil {
		return m.GetCurrentByCompanyIDFunc(ctx, companyID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByGatewaySubscriptionID(ctx context.Context, gatewayID string) (*subscription.Subscription, error) {
	if m.GetByGatewaySubscriptionIDFunc != nil {
		return m.GetByGatewaySubscriptionIDFunc(ctx, gatewayID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	m.updateCalls.Add(1)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) ExistsActiveForCompany(ctx context.Context, companyID uint) (bool, error) {
	if m.ExistsActiveForCompanyFunc != nil {
		return m.ExistsActiveForCompanyFunc(ctx, companyID)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) FindLapsedTrials(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	if m.FindLapsedTrialsFunc != nil {
		return m.FindLapsedTrialsFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindLapsedPayments(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	if m.FindLapsedPaymentsFunc != nil {
		return m.FindLapsedPaymentsFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindEndedPeriods(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	if m.FindEndedPeriodsFunc != nil {
		return m.FindEndedPeriodsFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListCompanyIDsByPlanID(ctx context.Context, planID uint) ([]uint, error) {
	if m.ListCompanyIDsByPlanIDFunc != nil {
		return m.ListCompanyIDsByPlanIDFunc(ctx, planID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) CountByPlanID(ctx context.Context, planID uint) (int64, error) {
	if m.CountByPlanIDFunc != nil {
		return m.CountByPlanIDFunc(ctx, planID)
	}
	return 0, nil
}

type mockPlanRepository struct {
	CreateFunc    func(ctx context.Context, plan *subscription.Plan) error
	GetByIDFunc   func(ctx context.Context, id uint) (*subscription.Plan, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*subscription.Plan, error)
	UpdateFunc    func(ctx context.Context, plan *subscription.Plan) error
	DeleteFunc    func(ctx context.Context, id uint) error
	ListFunc      func(ctx context.Context, filter subscription.PlanFilter) ([]*subscription.Plan, error)

	getByIDCalls atomic.Int32
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	m.getByIDCalls.Add(1)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepository) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPlanRepository) List(ctx context.Context, filter subscription.PlanFilter) ([]*subscription.Plan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

type mockUsageAggregator struct {
	AggregateFunc func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error)

	calls atomic.Int32
}

func (m *mockUsageAggregator) Aggregate(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
	m.calls.Add(1)
	if m.AggregateFunc != nil {
		return m.AggregateFunc(ctx, companyID)
	}
	return subscription.NewUsageSnapshot(0, 0, 0), nil
}

// memoryStatusCache is a TTL cache with generations, enough to exercise the
// resolver's caching contract.
type memoryStatusCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[uint]cachedSnapshot
	gens    map[uint]uint64
}

type cachedSnapshot struct {
	snap      *subscription.StatusSnapshot
	expiresAt time.Time
}

func newMemoryStatusCache(ttl time.Duration, clk clock.Clock) *memoryStatusCache {
	return &memoryStatusCache{
		ttl:     ttl,
		clock:   clk,
		entries: make(map[uint]cachedSnapshot),
		gens:    make(map[uint]uint64),
	}
}

func (c *memoryStatusCache) Get(companyID uint) (*subscription.StatusSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[companyID]
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.snap, true
}

func (c *memoryStatusCache) Generation(companyID uint) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[companyID]
}

func (c *memoryStatusCache) Set(companyID uint, snap *subscription.StatusSnapshot, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[companyID] != gen {
		return false
	}
	c.entries[companyID] = cachedSnapshot{snap: snap, expiresAt: c.clock.Now().Add(c.ttl)}
	return true
}

func (c *memoryStatusCache) Invalidate(companyID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, companyID)
	c.gens[companyID]++
}

func (c *memoryStatusCache) InvalidateStatus(_ context.Context, companyID uint) {
	c.Invalidate(companyID)
}

func (c *memoryStatusCache) has(companyID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[companyID]
	return ok
}

type mockInvalidator struct {
	mu  sync.Mutex
	ids []uint
}

func (m *mockInvalidator) InvalidateStatus(_ context.Context, companyID uint) {
	m.mu.Lock()
	m.ids = append(m.ids, companyID)
	m.mu.Unlock()
}

func (m *mockInvalidator) invalidated() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint(nil), m.ids...)
}

type mockTransitionListener struct {
	transitions []Transition
}

func (m *mockTransitionListener) OnStatusTransition(_ context.Context, t Transition) {
	m.transitions = append(m.transitions, t)
}

type mockStatusResolver struct {
	ExecuteFunc func(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error)
}

func (m *mockStatusResolver) Execute(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, companyID)
	}
	return nil, subscription.ErrSubscriptionNotFound
}

var testNow = time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time { return &t }

func newTestSubscription(t *testing.T, id, companyID, planID uint, status vo.SubscriptionStatus, trialEnd, nextDue *time.Time) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.ReconstructSubscriptionWithParams(subscription.SubscriptionReconstructParams{
		ID:          id,
		CompanyID:   companyID,
		PlanID:      planID,
		Status:      status,
		TrialEnd:    trialEnd,
		NextDueDate: nextDue,
		Version:     1,
		CreatedAt:   testNow.AddDate(0, -1, 0),
		UpdatedAt:   testNow.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	return sub
}

func newTestPlan(t *testing.T, id uint, limits subscription.PlanLimits) *subscription.Plan {
	t.Helper()
	plan, err := subscription.ReconstructPlanWithParams(subscription.PlanReconstructParams{
		ID:           id,
		Slug:         "pro",
		Name:         "Pro",
		BillingCycle: vo.BillingCycleMonthly,
		TrialDays:    14,
		Limits:       limits,
		IsActive:     true,
		IsPublic:     true,
		Version:      1,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	})
	require.NoError(t, err)
	return plan
}

func finiteLimits(users, leads, storageGB int64) subscription.PlanLimits {
	return subscription.PlanLimits{
		MaxUsers:     vo.MustLimit(users),
		MaxLeads:     vo.MustLimit(leads),
		MaxStorageGB: vo.MustLimit(storageGB),
	}
}
