package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
	"github.com/noah-isme/timetable-api/pkg/jobs"
)

// JobTypeDetectConflicts identifies background detection jobs.
const JobTypeDetectConflicts = "conflicts.detect"

type conflictStore interface {
	Replace(ctx context.Context, exec sqlx.ExtContext, conflicts []models.Conflict) error
	List(ctx context.Context, kind models.ConflictKind) ([]models.Conflict, error)
}

type entryLister interface {
	ListEntries(ctx context.Context) ([]models.Assignment, error)
}

type jobQueue interface {
	Submit(jobType string, payload interface{}) (string, error)
	Status(id string) (jobs.Status, bool)
}

// ConflictService audits the stored timetable for double bookings and keeps the latest result.
type ConflictService struct {
	catalog   CatalogReaders
	entries   entryLister
	store     conflictStore
	tx        txProvider
	metrics   *MetricsService
	queue     jobQueue
	renderer  *export.Renderer
	validator *validator.Validate
	logger    *zap.Logger

	mu sync.Mutex
}

// NewConflictService wires conflict detection dependencies.
func NewConflictService(
	catalog CatalogReaders,
	entries entryLister,
	store conflictStore,
	tx txProvider,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{
		catalog:   catalog,
		entries:   entries,
		store:     store,
		tx:        tx,
		metrics:   metrics,
		renderer:  export.NewRenderer(),
		validator: validate,
		logger:    logger,
	}
}

// AttachQueue enables asynchronous detection. The queue's handler is expected to call HandleJob.
func (s *ConflictService) AttachQueue(queue jobQueue) {
	s.queue = queue
}

// HandleJob runs a queued detection.
func (s *ConflictService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeDetectConflicts {
		s.logger.Warn("ignoring unknown job type", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	report, err := s.Detect(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("background conflict detection finished", zap.String("job_id", job.ID), zap.Int("conflicts", report.Summary.Total))
	return nil
}

// Detect scans the stored timetable and replaces the stored conflict set with the result.
func (s *ConflictService) Detect(ctx context.Context) (*dto.ConflictReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries.ListEntries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}

	conflicts := scheduler.NewDetector(scheduler.LabelsFromCatalog(catalog)).Detect(entries)
	if err := s.replace(ctx, conflicts); err != nil {
		return nil, err
	}

	summary := scheduler.Summarize(conflicts)
	s.metrics.SetConflicts(summary)
	s.logger.Info("conflict detection finished",
		zap.Int("entries", len(entries)),
		zap.Int("conflicts", summary.Total),
	)
	return &dto.ConflictReport{Conflicts: conflicts, Summary: summary}, nil
}

func (s *ConflictService) replace(ctx context.Context, conflicts []models.Conflict) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.store.Replace(ctx, tx, conflicts); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store conflicts")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit conflicts")
	}
	return nil
}

// List returns the stored conflicts from the last detection pass.
func (s *ConflictService) List(ctx context.Context, filter dto.ConflictFilter) (*dto.ConflictReport, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict filter")
	}
	conflicts, err := s.store.List(ctx, models.ConflictKind(filter.Kind))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conflicts")
	}
	if conflicts == nil {
		conflicts = []models.Conflict{}
	}
	return &dto.ConflictReport{Conflicts: conflicts, Summary: scheduler.Summarize(conflicts)}, nil
}

// Enqueue schedules a detection on the background queue.
func (s *ConflictService) Enqueue(_ context.Context) (*dto.ConflictJobResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceUnavailable, "background detection is disabled")
	}
	id, err := s.queue.Submit(JobTypeDetectConflicts, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "failed to enqueue detection")
	}
	return &dto.ConflictJobResponse{JobID: id, Status: string(jobs.StatusQueued)}, nil
}

// JobStatus reports the state of a background detection.
func (s *ConflictService) JobStatus(id string) (*dto.ConflictJobResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceUnavailable, "background detection is disabled")
	}
	status, ok := s.queue.Status(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "detection job not found")
	}
	return &dto.ConflictJobResponse{JobID: id, Status: string(status)}, nil
}

// Export renders the stored conflicts.
func (s *ConflictService) Export(ctx context.Context, rawFormat string) ([]byte, export.Format, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	conflicts, err := s.store.List(ctx, "")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conflicts")
	}

	data := export.Dataset{Headers: []string{"#", "Kind", "Entity", "Timeslot", "Reason"}}
	for i, c := range conflicts {
		data.Rows = append(data.Rows, map[string]string{
			"#":        strconv.Itoa(i + 1),
			"Kind":     string(c.Kind),
			"Entity":   c.EntityID,
			"Timeslot": c.TimeSlotID,
			"Reason":   c.Reason,
		})
	}
	out, err := s.renderer.Render(format, data, "Timetable conflicts")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render conflicts")
	}
	return out, format, nil
}
