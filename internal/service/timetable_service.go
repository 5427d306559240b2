package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

const (
	timetableCacheKey     = "timetable:entries"
	timetableCachePattern = "timetable:*"
)

type timetableStore interface {
	ListEntries(ctx context.Context) ([]models.Assignment, error)
	ListEntryViews(ctx context.Context) ([]models.TimetableEntryView, error)
	FindEntryByID(ctx context.Context, id string) (*models.Assignment, error)
	ReplaceEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.Assignment) error
	DeleteEntries(ctx context.Context) (int64, error)
	CreateRun(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error
	ListRuns(ctx context.Context, limit int) ([]models.TimetableRun, error)
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// TimetableConfig tunes generation.
type TimetableConfig struct {
	Strategy             string
	BacktrackBudget      int
	EnforceMaxLoad       bool
	ExpandWeeklySessions bool
	CacheTTL             time.Duration
}

// TimetableService generates, stores and serves the timetable.
type TimetableService struct {
	catalog   CatalogReaders
	store     timetableStore
	tx        txProvider
	cache     timetableCache
	metrics   *MetricsService
	renderer  *export.Renderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableConfig

	// mu serialises runs and clears so two runs never interleave their replacement of the stored set.
	mu sync.Mutex
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	catalog CatalogReaders,
	store timetableStore,
	tx txProvider,
	cache timetableCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = (*CacheService)(nil)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = scheduler.StrategyFirstFit
	}
	return &TimetableService{
		catalog:   catalog,
		store:     store,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		renderer:  export.NewRenderer(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate rebuilds the whole timetable from the current catalog. The stored timetable is only replaced when
// the run succeeds; a failed run leaves it untouched and is recorded in the run history.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}
	strategyName := req.Strategy
	if strategyName == "" {
		strategyName = s.cfg.Strategy
	}
	strategy, err := scheduler.StrategyByName(strategyName, s.cfg.BacktrackBudget)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}

	engine := scheduler.NewEngine(scheduler.Options{
		Strategy:             strategy,
		EnforceMaxLoad:       s.cfg.EnforceMaxLoad,
		ExpandWeeklySessions: s.cfg.ExpandWeeklySessions,
	})
	input := scheduler.Input{
		Sections:     catalog.Sections,
		Courses:      catalog.Courses,
		Faculties:    catalog.Faculties,
		Rooms:        catalog.Rooms,
		TimeSlots:    catalog.TimeSlots,
		Availability: scheduler.NewAvailabilityIndex(catalog.Availability),
		Demand:       req.Demand,
	}

	run := models.TimetableRun{ID: uuid.NewString(), Strategy: engine.StrategyName(), StartedAt: time.Now().UTC()}
	assignments, runErr := engine.Run(input)
	run.FinishedAt = time.Now().UTC()
	duration := run.FinishedAt.Sub(run.StartedAt)

	if runErr != nil {
		run.Status = models.RunStatusFailed
		msg := runErr.Error()
		run.Error = &msg
		if err := s.store.CreateRun(ctx, nil, &run); err != nil {
			s.logger.Warn("failed to record failed timetable run", zap.String("run_id", run.ID), zap.Error(err))
		}
		s.metrics.ObserveTimetableRun(run.Strategy, run.Status, 0, duration)
		s.logger.Info("timetable generation failed", zap.String("run_id", run.ID), zap.String("strategy", run.Strategy), zap.Error(runErr))
		return nil, mapSchedulerError(runErr)
	}

	for i := range assignments {
		assignments[i].ID = uuid.NewString()
		assignments[i].RunID = run.ID
	}
	run.Status = models.RunStatusSucceeded
	run.Entries = len(assignments)

	if err := s.persist(ctx, &run, assignments); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, timetableCachePattern); err != nil {
		s.logger.Warn("failed to invalidate timetable cache", zap.Error(err))
	}
	s.metrics.ObserveTimetableRun(run.Strategy, run.Status, run.Entries, duration)
	s.logger.Info("timetable generated",
		zap.String("run_id", run.ID),
		zap.String("strategy", run.Strategy),
		zap.Int("entries", run.Entries),
		zap.Duration("duration", duration),
	)

	return &dto.GenerateTimetableResponse{Run: run, Entries: assignments}, nil
}

func (s *TimetableService) persist(ctx context.Context, run *models.TimetableRun, assignments []models.Assignment) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.store.CreateRun(ctx, tx, run); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record timetable run")
	}
	if err = s.store.ReplaceEntries(ctx, tx, assignments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
	}
	return nil
}

// List returns the stored timetable in scheduling order.
func (s *TimetableService) List(ctx context.Context) ([]models.Assignment, error) {
	var cached []models.Assignment
	if hit, err := s.cache.Get(ctx, timetableCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	if entries == nil {
		entries = []models.Assignment{}
	}
	if err := s.cache.Set(ctx, timetableCacheKey, entries, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("timetable cache set failed", zap.Error(err))
	}
	return entries, nil
}

// Get returns one stored assignment.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	entry, err := s.store.FindEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	return entry, nil
}

// Clear removes every stored assignment.
func (s *TimetableService) Clear(ctx context.Context) (*dto.ClearTimetableResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.store.DeleteEntries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear timetable")
	}
	if err := s.cache.Invalidate(ctx, timetableCachePattern); err != nil {
		s.logger.Warn("failed to invalidate timetable cache", zap.Error(err))
	}
	s.metrics.SetAssignments(0)
	s.logger.Info("timetable cleared", zap.Int64("deleted", deleted))
	return &dto.ClearTimetableResponse{Deleted: deleted}, nil
}

// Runs returns the most recent generation runs.
func (s *TimetableService) Runs(ctx context.Context, limit int) ([]models.TimetableRun, error) {
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable runs")
	}
	if runs == nil {
		runs = []models.TimetableRun{}
	}
	return runs, nil
}

// Export renders the stored timetable with entity names resolved.
func (s *TimetableService) Export(ctx context.Context, rawFormat string) ([]byte, export.Format, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	views, err := s.store.ListEntryViews(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	data := export.Dataset{Headers: []string{"Day", "Slot", "Section", "Course", "Kind", "Faculty", "Room"}}
	for _, v := range views {
		data.Rows = append(data.Rows, map[string]string{
			"Day":     v.Day,
			"Slot":    strconv.Itoa(v.Slot),
			"Section": v.SectionName,
			"Course":  v.CourseName,
			"Kind":    v.CourseKind,
			"Faculty": v.FacultyName,
			"Room":    v.RoomName,
		})
	}
	out, err := s.renderer.Render(format, data, "Timetable")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return out, format, nil
}

// mapSchedulerError converts engine failures into API errors that carry the engine's message.
func mapSchedulerError(err error) error {
	var infeasible *scheduler.InfeasibleError
	var malformed *scheduler.MalformedInputError
	switch {
	case errors.As(err, &infeasible):
		return appErrors.Wrap(err, appErrors.ErrInfeasible.Code, appErrors.ErrInfeasible.Status, infeasible.Error())
	case errors.As(err, &malformed):
		return appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, appErrors.ErrMalformedInput.Status, malformed.Error())
	case errors.Is(err, scheduler.ErrSearchBudgetExceeded):
		return appErrors.Wrap(err, appErrors.ErrSearchBudget.Code, appErrors.ErrSearchBudget.Status, appErrors.ErrSearchBudget.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation failed")
	}
}
