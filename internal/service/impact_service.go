package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

// ImpactService runs what-if analyses over the stored timetable without changing it.
type ImpactService struct {
	catalog   CatalogReaders
	entries   entryLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewImpactService wires impact analysis dependencies.
func NewImpactService(catalog CatalogReaders, entries entryLister, validate *validator.Validate, logger *zap.Logger) *ImpactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImpactService{catalog: catalog, entries: entries, validator: validate, logger: logger}
}

// FacultyImpact grades what the timetable loses if a faculty becomes unavailable.
func (s *ImpactService) FacultyImpact(ctx context.Context, req dto.FacultyImpactRequest) (*models.Impact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty impact payload")
	}
	catalog, entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireFaculties(catalog, []string{req.FacultyID}); err != nil {
		return nil, err
	}

	impact := scheduler.FacultyImpact(catalog, entries, req.FacultyID)
	s.logger.Info("faculty impact analysed",
		zap.String("faculty_id", req.FacultyID),
		zap.Int("score", impact.Score),
		zap.String("severity", string(impact.Severity)),
	)
	return &impact, nil
}

// RoomShortage grades what the timetable loses if a room is withdrawn and lists replacements.
func (s *ImpactService) RoomShortage(ctx context.Context, req dto.RoomShortageRequest) (*models.Impact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room shortage payload")
	}
	catalog, entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	room, ok := lo.Find(catalog.Rooms, func(r models.Room) bool { return r.ID == req.RoomID })
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}

	impact := scheduler.RoomShortage(catalog, entries, room)
	s.logger.Info("room shortage analysed",
		zap.String("room_id", room.ID),
		zap.Int("score", impact.Score),
		zap.Int("alternatives", len(impact.Alternatives)),
	)
	return &impact, nil
}

// BulkFacultyImpact ranks several faculties by impact.
func (s *ImpactService) BulkFacultyImpact(ctx context.Context, req dto.BulkFacultyImpactRequest) (*dto.BulkFacultyImpactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk faculty impact payload")
	}
	catalog, entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireFaculties(catalog, req.FacultyIDs); err != nil {
		return nil, err
	}

	ranked := scheduler.RankFaculties(catalog, entries, req.FacultyIDs)
	return &dto.BulkFacultyImpactResponse{MostCritical: ranked[0], Impacts: ranked}, nil
}

func (s *ImpactService) load(ctx context.Context) (models.Catalog, []models.Assignment, error) {
	entries, err := s.entries.ListEntries(ctx)
	if err != nil {
		return models.Catalog{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return models.Catalog{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	return catalog, entries, nil
}

func requireFaculties(catalog models.Catalog, ids []string) error {
	known := lo.SliceToMap(catalog.Faculties, func(f models.Faculty) (string, struct{}) { return f.ID, struct{}{} })
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty "+id+" not found")
		}
	}
	return nil
}
