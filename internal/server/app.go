package server

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/jobs"
)

const auditRetryDelay = 2 * time.Second

// App bundles the services behind the HTTP API.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *sqlx.DB
	Auth      *service.AuthService
	Metrics   *service.MetricsService
	Catalog   *service.CatalogService
	Timetable *service.TimetableService
	Conflicts *service.ConflictService
	Impact    *service.ImpactService
	Queue     *jobs.Queue
}

// NewApp wires repositories and services on top of an open database. redisClient may be nil, which disables
// the timetable cache.
func NewApp(cfg *config.Config, logger *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logger)
	}
	cache := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TimetableTTL, logger, cfg.Cache.Enabled)

	repos := service.CatalogRepositories{
		Faculties:    repository.NewFacultyRepository(db),
		Courses:      repository.NewCourseRepository(db),
		Sections:     repository.NewSectionRepository(db),
		Rooms:        repository.NewRoomRepository(db),
		TimeSlots:    repository.NewTimeSlotRepository(db),
		Availability: repository.NewAvailabilityRepository(db),
	}
	timetableRepo := repository.NewTimetableRepository(db)

	timetable := service.NewTimetableService(repos.Readers(), timetableRepo, db, cache, metrics, validate, logger.Named("timetable"),
		service.TimetableConfig{
			Strategy:             cfg.Scheduler.Strategy,
			BacktrackBudget:      cfg.Scheduler.BacktrackBudget,
			EnforceMaxLoad:       cfg.Scheduler.EnforceMaxLoad,
			ExpandWeeklySessions: cfg.Scheduler.ExpandWeeklySessions,
			CacheTTL:             cfg.Cache.TimetableTTL,
		})

	conflicts := service.NewConflictService(repos.Readers(), timetableRepo, repository.NewConflictRepository(db), db,
		metrics, validate, logger.Named("conflicts"))
	queue := jobs.NewQueue("conflict-audit", conflicts.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		MaxRetries: cfg.Audit.Retries,
		RetryDelay: auditRetryDelay,
		Logger:     logger.Named("audit-queue"),
	})
	conflicts.AttachQueue(queue)

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Metrics: metrics,
		Auth: service.NewAuthService(validate, logger.Named("auth"), service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
		}),
		Catalog:   service.NewCatalogService(repos, db, validate, logger.Named("catalog")),
		Timetable: timetable,
		Conflicts: conflicts,
		Impact:    service.NewImpactService(repos.Readers(), timetableRepo, validate, logger.Named("impact")),
		Queue:     queue,
	}
}

// Start launches background workers.
func (a *App) Start(ctx context.Context) {
	a.Queue.Start(ctx)
}

// Stop drains background workers.
func (a *App) Stop() {
	a.Queue.Stop()
}
