// Package scheduler runs the periodic maintenance jobs on a single gocron v2
// scheduler.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/biztime"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// BatchJob processes one batch and returns the number of items handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// CachePurger drops expired cache entries and returns how many were removed.
type CachePurger interface {
	Purge() int
}

type ReconciliationSchedule struct {
	// DailyCron is evaluated in the business timezone.
	DailyCron string
	// Interval adds a fixed-rate sweep between the daily runs. Zero disables it.
	Interval time.Duration
	Timeout  time.Duration
}

// SchedulerManager owns the gocron scheduler and every registered job.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates the scheduler with cron expressions evaluated in
// the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Subscription Jobs
// ========================================

// RegisterReconciliationJobs schedules the lapsed-subscription sweep on the
// daily cron and, when configured, on a fixed interval as well. Both share
// the same job so an overlapping run is skipped by the job itself.
func (m *SchedulerManager) RegisterReconciliationJobs(job BatchJob, schedule ReconciliationSchedule) error {
	return m.registerSweep("subscription-reconcile", "reconcile", job, schedule)
}

// RegisterPeriodEndJobs schedules the cancellation of subscriptions whose
// cancel-at-period-end date has passed, on the same cadence as the sweep.
func (m *SchedulerManager) RegisterPeriodEndJobs(job BatchJob, schedule ReconciliationSchedule) error {
	return m.registerSweep("subscription-period-end", "period-end", job, schedule)
}

func (m *SchedulerManager) registerSweep(name, tag string, job BatchJob, schedule ReconciliationSchedule) error {
	timeout := schedule.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	task := gocron.NewTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		m.runSweep(ctx, name, job)
	})

	_, err := m.scheduler.NewJob(
		gocron.CronJob(schedule.DailyCron, false),
		task,
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", tag, "daily"),
		gocron.WithName(name+"-daily"),
	)
	if err != nil {
		return fmt.Errorf("failed to register daily %s job: %w", tag, err)
	}

	if schedule.Interval > 0 {
		_, err = m.scheduler.NewJob(
			gocron.DurationJob(schedule.Interval),
			task,
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithTags("subscription", tag, "interval"),
			gocron.WithName(name+"-interval"),
		)
		if err != nil {
			return fmt.Errorf("failed to register interval %s job: %w", tag, err)
		}
	}

	m.logger.Infow("registered subscription jobs",
		"job", name,
		"daily_cron", schedule.DailyCron,
		"interval", schedule.Interval,
		"timeout", timeout,
	)
	return nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("subscription job started", "job", name)

	startTime := biztime.NowUTC()

	count, err := job.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			m.logger.Warnw("subscription job interrupted",
				"job", name,
				"error", err,
				"duration", time.Since(startTime),
			)
			return
		}
		m.logger.Errorw("subscription job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("subscriptions processed",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no subscriptions to process",
			"job", name,
			"duration", time.Since(startTime),
		)
	}
}

// ========================================
// Cache Maintenance Jobs
// ========================================

// RegisterCachePurgeJob evicts expired status snapshots every interval.
func (m *SchedulerManager) RegisterCachePurgeJob(purger CachePurger, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if removed := purger.Purge(); removed > 0 {
				m.logger.Debugw("expired status snapshots purged", "count", removed)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("cache", "purge"),
		gocron.WithName("status-cache-purge"),
	)
	if err != nil {
		return fmt.Errorf("failed to register cache purge: %w", err)
	}

	m.logger.Infow("registered cache purge job", "interval", interval)
	return nil
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
