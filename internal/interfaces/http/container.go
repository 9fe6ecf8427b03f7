package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	companyUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/company/usecases"
	crmUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/usecases"
	subUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/auth"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/cache"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/config"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/permission"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/pubsub"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/ratelimit"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/scheduler"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/storage"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/handlers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// Container holds every component of the API process and wires them
// together. Nothing runs until Start is called.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	clock  clock.Clock
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Snapshot cache and the invalidator every mutating flow calls. The
	// invalidator is the Redis bus when Redis is enabled, else the cache.
	statusCache  *cache.StatusSnapshotCache
	invalidator  subUsecases.StatusInvalidator
	bus          *pubsub.RedisStatusInvalidationBus
	busCancel    context.CancelFunc
	busCancelMu  sync.Mutex
	fileStorage  storage.FileStorage
	enforcer     *permission.Enforcer
	jwtSvc       *auth.JWTService
	hasher       *auth.BcryptPasswordHasher
	rateLimiter  ratelimit.RateLimiter
	schedulerMgr *scheduler.SchedulerManager

	authMiddleware         *middleware.AuthMiddleware
	subscriptionMiddleware *middleware.SubscriptionMiddleware
	permissionMiddleware   *middleware.PermissionMiddleware
	authRateLimit          *middleware.RateLimitMiddleware
	publicFormRateLimit    *middleware.RateLimitMiddleware
}

// allUseCases groups the use cases shared between handlers, middleware and
// background jobs.
type allUseCases struct {
	resolveStatus *subUsecases.ResolveStatusUseCase
	checkLimit    *subUsecases.CheckLimitUseCase
	reconcile     *subUsecases.ReconcileSubscriptionsUseCase
	periodEnd     *subUsecases.CompleteScheduledCancellationsUseCase
	capacityGuard *crmUsecases.CapacityGuard
	register      *companyUsecases.RegisterCompanyUseCase
	login         *companyUsecases.LoginUseCase
}

type allHandlers struct {
	auth         *handlers.AuthHandler
	subscription *handlers.SubscriptionHandler
	plan         *handlers.PlanHandler
	payment      *handlers.PaymentHandler
	lead         *handlers.LeadHandler
	team         *handlers.TeamHandler
	file         *handlers.FileHandler
	publicForm   *handlers.PublicFormHandler
	health       *handlers.HealthHandler
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(ctx context.Context, gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
		clock:  clock.System(),
	}

	// Section 1: Infrastructure - Redis, repositories, cache, storage
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}

	// Section 2: Subscription - resolver, limit gate, reconciliation
	c.initSubscription()

	// Section 3: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	// Section 4: Handlers and middlewares
	if err := c.initHandlers(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	c.repos = newRepositories(c.db, c.log)
	c.statusCache = cache.NewStatusSnapshotCache(c.cfg.Subscription.SnapshotTTL, c.clock)
	c.invalidator = c.statusCache
	c.rateLimiter = ratelimit.NewLocalRateLimiter()

	if c.cfg.Redis.Enabled {
		client, err := initRedis(ctx, c.cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
		c.bus = pubsub.NewRedisStatusInvalidationBus(client, c.cfg.Subscription.InvalidationChannel, c.statusCache, c.log)
		c.invalidator = c.bus
		c.rateLimiter = ratelimit.NewRedisRateLimiter(client)
	}

	fs, err := storage.New(ctx, c.cfg.Storage)
	if err != nil {
		c.log.Errorw("failed to initialize file storage", "driver", c.cfg.Storage.Driver, "error", err)
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}
	c.fileStorage = fs

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		c.log.Errorw("failed to initialize permission enforcer", "error", err)
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := enforcer.SeedDefaultPolicies(); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}
	c.enforcer = enforcer

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer, c.cfg.Auth.JWT.AccessExpMins)
	c.hasher = auth.NewBcryptPasswordHasher(c.cfg.Auth.BcryptCost)
	return nil
}

func (c *Container) initSubscription() {
	r := c.repos
	resolve := subUsecases.NewResolveStatusUseCase(r.subscriptionRepo, r.planRepo, r.usageAggregator, c.statusCache, c.clock, c.log)
	checkLimit := subUsecases.NewCheckLimitUseCase(resolve, c.log)

	reconcile := subUsecases.NewReconcileSubscriptionsUseCase(r.subscriptionRepo, c.invalidator, c.clock, c.log)
	reconcile.SetTransitionListener(newTransitionNotifier(c.cfg, r.companyRepo, c.log))

	c.ucs = &allUseCases{
		resolveStatus: resolve,
		checkLimit:    checkLimit,
		reconcile:     reconcile,
		periodEnd:     subUsecases.NewCompleteScheduledCancellationsUseCase(r.subscriptionRepo, c.invalidator, c.clock, c.log),
		capacityGuard: crmUsecases.NewCapacityGuard(checkLimit, c.invalidator, c.log),
		register: companyUsecases.NewRegisterCompanyUseCase(
			r.companyRepo, r.userRepo, r.planRepo, r.subscriptionRepo,
			db.NewTransactionManager(c.db), c.hasher, c.invalidator, c.clock,
			c.cfg.Subscription.DefaultPlanSlug, c.cfg.Subscription.DefaultTrialDays, c.log,
		),
		login: companyUsecases.NewLoginUseCase(r.userRepo, c.hasher, c.jwtSvc, c.log),
	}
}

func (c *Container) initScheduler() error {
	mgr, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	schedule := scheduler.ReconciliationSchedule{
		DailyCron: c.cfg.Subscription.DailyCron,
		Interval:  c.cfg.Subscription.SweepInterval,
		Timeout:   c.cfg.Subscription.SweepTimeout,
	}
	if err := mgr.RegisterReconciliationJobs(c.ucs.reconcile, schedule); err != nil {
		return fmt.Errorf("failed to register reconciliation jobs: %w", err)
	}
	if err := mgr.RegisterPeriodEndJobs(c.ucs.periodEnd, schedule); err != nil {
		return fmt.Errorf("failed to register period-end jobs: %w", err)
	}
	if err := mgr.RegisterCachePurgeJob(c.statusCache, c.cfg.Subscription.SnapshotTTL); err != nil {
		return fmt.Errorf("failed to register cache purge job: %w", err)
	}

	c.schedulerMgr = mgr
	return nil
}

func (c *Container) initHandlers() error {
	r := c.repos
	guard := c.ucs.capacityGuard
	maxUpload := c.cfg.Storage.MaxUpload

	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	c.hdlrs = &allHandlers{
		auth: handlers.NewAuthHandler(c.ucs.register, c.ucs.login, c.log),
		subscription: handlers.NewSubscriptionHandler(
			c.ucs.resolveStatus,
			subUsecases.NewGetSubscriptionUseCase(r.subscriptionRepo, c.log),
			subUsecases.NewChangePlanUseCase(r.subscriptionRepo, r.planRepo, r.usageAggregator, c.invalidator, c.clock, c.log),
			subUsecases.NewCancelSubscriptionUseCase(r.subscriptionRepo, c.invalidator, c.clock, c.log),
			c.log,
		),
		plan: handlers.NewPlanHandler(
			subUsecases.NewCreatePlanUseCase(r.planRepo, c.log),
			subUsecases.NewUpdatePlanUseCase(r.planRepo, r.subscriptionRepo, c.invalidator, c.log),
			subUsecases.NewDeletePlanUseCase(r.planRepo, r.subscriptionRepo, c.log),
			subUsecases.NewGetPlanUseCase(r.planRepo, c.log),
			subUsecases.NewListPlansUseCase(r.planRepo, c.log),
			c.log,
		),
		payment: handlers.NewPaymentHandler(
			subUsecases.NewProcessPaymentEventUseCase(r.subscriptionRepo, r.planRepo, c.invalidator, c.clock, c.log),
			c.log,
		),
		lead: handlers.NewLeadHandler(
			crmUsecases.NewCreateLeadUseCase(r.leadRepo, guard, c.log),
			crmUsecases.NewListLeadsUseCase(r.leadRepo, c.log),
			crmUsecases.NewMoveLeadUseCase(r.leadRepo, c.log),
			crmUsecases.NewDeleteLeadUseCase(r.leadRepo, c.invalidator, c.log),
			c.log,
		),
		team: handlers.NewTeamHandler(
			crmUsecases.NewCreateUserUseCase(r.userRepo, c.hasher, guard, c.log),
			crmUsecases.NewListUsersUseCase(r.userRepo, c.log),
			crmUsecases.NewDeactivateUserUseCase(r.userRepo, c.invalidator, c.log),
			c.log,
		),
		file: handlers.NewFileHandler(
			crmUsecases.NewUploadFileUseCase(r.fileRepo, c.fileStorage, guard, maxUpload, c.log),
			crmUsecases.NewListFilesUseCase(r.fileRepo, c.fileStorage, c.log),
			crmUsecases.NewDeleteFileUseCase(r.fileRepo, c.fileStorage, c.invalidator, c.log),
			maxUpload,
			c.log,
		),
		publicForm: handlers.NewPublicFormHandler(
			crmUsecases.NewCapturePublicLeadUseCase(r.companyRepo, r.leadRepo, c.ucs.resolveStatus, guard, c.log),
			c.log,
		),
		health: handlers.NewHealthHandler(sqlDB),
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.subscriptionMiddleware = middleware.NewSubscriptionMiddleware(c.ucs.resolveStatus, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)
	c.authRateLimit = middleware.NewRateLimitMiddleware(c.rateLimiter, "auth", authRequestsPerMinute, c.log)
	c.publicFormRateLimit = middleware.NewRateLimitMiddleware(c.rateLimiter, "public_form", c.cfg.RateLimit.PublicFormPerMinute, c.log)
	return nil
}

// Reconciler exposes the sweep for the one-shot CLI command.
func (c *Container) Reconciler() *subUsecases.ReconcileSubscriptionsUseCase {
	return c.ucs.reconcile
}

// PeriodEndCanceller exposes the period-end cancellation pass for the CLI.
func (c *Container) PeriodEndCanceller() *subUsecases.CompleteScheduledCancellationsUseCase {
	return c.ucs.periodEnd
}
