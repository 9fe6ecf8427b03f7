package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

const testCompanyID = uint(7)

type resolverFixture struct {
	subs  *mockSubscriptionRepository
	plans *mockPlanRepository
	usage *mockUsageAggregator
	cache *memoryStatusCache
	clock *clock.Manual
	uc    *ResolveStatusUseCase
}

func newResolverFixture(t *testing.T, limits subscription.PlanLimits, leads int64) *resolverFixture {
	t.Helper()
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusTrial, ptrTime(testNow.AddDate(0, 0, 10)), nil)
	plan := newTestPlan(t, 100, limits)

	f := &resolverFixture{
		subs: &mockSubscriptionRepository{
			GetCurrentByCompanyIDFunc: func(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
				return sub, nil
			},
		},
		plans: &mockPlanRepository{
			GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Plan, error) {
				return plan, nil
			},
		},
		usage: &mockUsageAggregator{
			AggregateFunc: func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
				return subscription.NewUsageSnapshot(1, leads, 0), nil
			},
		},
		clock: clock.NewManual(testNow),
	}
	f.cache = newMemoryStatusCache(5*time.Minute, f.clock)
	f.uc = NewResolveStatusUseCase(f.subs, f.plans, f.usage, f.cache, f.clock, logger.NewNopLogger())
	return f
}

func (f *resolverFixture) reads() (int32, int32, int32) {
	return f.subs.getCurrentCalls.Load(), f.plans.getByIDCalls.Load(), f.usage.calls.Load()
}

func TestResolveStatus_CacheHitPerformsNoReads(t *testing.T) {
	f := newResolverFixture(t, finiteLimits(5, 100, 10), 40)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, testCompanyID)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	second, err := f.uc.Execute(ctx, testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	subReads, planReads, usageReads := f.reads()
	assert.Equal(t, int32(1), subReads)
	assert.Equal(t, int32(1), planReads)
	assert.Equal(t, int32(1), usageReads)
}

func TestResolveStatus_BuildsSnapshot(t *testing.T) {
	f := newResolverFixture(t, finiteLimits(5, 100, 10), 85)

	snap, err := f.uc.Execute(context.Background(), testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, testCompanyID, snap.CompanyID)
	assert.Equal(t, "pro", snap.PlanSlug)
	assert.Equal(t, vo.StatusTrial, snap.Status)
	assert.Equal(t, float64(85), snap.Leads.Used)
	assert.InDelta(t, 85.0, snap.Leads.PercentUsed, 0.001)
	assert.True(t, snap.Leads.NearLimit)
	assert.False(t, snap.Leads.OverLimit)
	assert.Equal(t, testNow, snap.ComputedAt)
}

func TestResolveStatus_InvalidationForcesRecompute(t *testing.T) {
	f := newResolverFixture(t, finiteLimits(5, 100, 10), 40)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, testCompanyID)
	require.NoError(t, err)

	f.usage.AggregateFunc = func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
		return subscription.NewUsageSnapshot(1, 41, 0), nil
	}
	f.cache.Invalidate(testCompanyID)

	snap, err := f.uc.Execute(ctx, testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, float64(41), snap.Leads.Used)
	_, _, usageReads := f.reads()
	assert.Equal(t, int32(2), usageReads)
}

func TestResolveStatus_TTLExpiryForcesRecompute(t *testing.T) {
	f := newResolverFixture(t, finiteLimits(5, 100, 10), 40)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, testCompanyID)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)
	snap, err := f.uc.Execute(ctx, testCompanyID)
	require.NoError(t, err)

	_, _, usageReads := f.reads()
	assert.Equal(t, int32(2), usageReads)
	assert.Equal(t, testNow.Add(5*time.Minute), snap.ComputedAt)
}

func TestResolveStatus_Errors(t *testing.T) {
	storeErr := errors.New("connection refused")

	tests := []struct {
		name    string
		setup   func(f *resolverFixture)
		wantErr error
	}{
		{
			name: "no subscription",
			setup: func(f *resolverFixture) {
				f.subs.GetCurrentByCompanyIDFunc = func(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
					return nil, nil
				}
			},
			wantErr: subscription.ErrSubscriptionNotFound,
		},
		{
			name: "subscription store failure",
			setup: func(f *resolverFixture) {
				f.subs.GetCurrentByCompanyIDFunc = func(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
					return nil, storeErr
				}
			},
			wantErr: subscription.ErrDataUnavailable,
		},
		{
			name: "plan store failure",
			setup: func(f *resolverFixture) {
				f.plans.GetByIDFunc = func(ctx context.Context, id uint) (*subscription.Plan, error) {
					return nil, storeErr
				}
			},
			wantErr: subscription.ErrDataUnavailable,
		},
		{
			name: "missing plan",
			setup: func(f *resolverFixture) {
				f.plans.GetByIDFunc = func(ctx context.Context, id uint) (*subscription.Plan, error) {
					return nil, nil
				}
			},
			wantErr: subscription.ErrPlanNotFound,
		},
		{
			name: "usage store failure is not zero usage",
			setup: func(f *resolverFixture) {
				f.usage.AggregateFunc = func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
					return nil, storeErr
				}
			},
			wantErr: subscription.ErrDataUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResolverFixture(t, finiteLimits(5, 100, 10), 0)
			tt.setup(f)

			snap, err := f.uc.Execute(context.Background(), testCompanyID)

			require.Error(t, err)
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, f.cache.has(testCompanyID))
		})
	}
}

func TestResolveStatus_ConcurrentMissesShareOneRecompute(t *testing.T) {
	f := newResolverFixture(t, finiteLimits(5, 100, 10), 10)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.usage.AggregateFunc = func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
		once.Do(func() { close(started) })
		<-release
		return subscription.NewUsageSnapshot(1, 10, 0), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*subscription.StatusSnapshot, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := f.uc.Execute(context.Background(), testCompanyID)
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	_, _, usageReads := f.reads()
	assert.Equal(t, int32(1), usageReads)
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestResolveStatus_CallerCancellationStillFillsCache(t *testing.T) {
	f := newResolverFixture(t, finiteLimits(5, 100, 10), 10)
	release := make(chan struct{})
	f.usage.AggregateFunc = func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
		<-release
		assert.NoError(t, ctx.Err())
		return subscription.NewUsageSnapshot(1, 10, 0), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Execute(ctx, testCompanyID)
		done <- err
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	assert.Eventually(t, func() bool { return f.cache.has(testCompanyID) }, time.Second, 5*time.Millisecond)
}

func TestResolveStatus_RecomputeStartedBeforeInvalidationIsNotStored(t *testing.T) {
	f := newResolverFixture(t, finiteLimits(5, 100, 10), 10)
	started := make(chan struct{})
	release := make(chan struct{})
	f.usage.AggregateFunc = func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
		close(started)
		<-release
		return subscription.NewUsageSnapshot(1, 10, 0), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := f.uc.Execute(context.Background(), testCompanyID)
		assert.NoError(t, err)
	}()

	<-started
	f.cache.Invalidate(testCompanyID)
	close(release)
	<-done

	assert.False(t, f.cache.has(testCompanyID))

	f.usage.AggregateFunc = func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
		return subscription.NewUsageSnapshot(1, 11, 0), nil
	}
	snap, err := f.uc.Execute(context.Background(), testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, float64(11), snap.Leads.Used)
	assert.True(t, f.cache.has(testCompanyID))
}
