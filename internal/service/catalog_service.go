package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/database"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type facultyRepository interface {
	facultyLister
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, exec sqlx.ExtContext, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

type courseRepository interface {
	courseLister
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type sectionRepository interface {
	sectionLister
	FindByID(ctx context.Context, id string) (*models.Section, error)
	Create(ctx context.Context, exec sqlx.ExtContext, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
}

type roomRepository interface {
	roomLister
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, exec sqlx.ExtContext, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

type timeslotRepository interface {
	timeslotLister
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	ExistsByDaySlot(ctx context.Context, day string, slot int) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimeSlot) error
	Update(ctx context.Context, slot *models.TimeSlot) error
	Delete(ctx context.Context, id string) error
}

type availabilityRepository interface {
	availabilityLister
	Upsert(ctx context.Context, exec sqlx.ExtContext, record *models.Availability) error
	Delete(ctx context.Context, id string) error
}

// CatalogRepositories groups the entity repositories managed by CatalogService.
type CatalogRepositories struct {
	Faculties    facultyRepository
	Courses      courseRepository
	Sections     sectionRepository
	Rooms        roomRepository
	TimeSlots    timeslotRepository
	Availability availabilityRepository
}

// Readers exposes the repositories as a scheduling catalog source.
func (r CatalogRepositories) Readers() CatalogReaders {
	return CatalogReaders{
		Faculties:    r.Faculties,
		Courses:      r.Courses,
		Sections:     r.Sections,
		Rooms:        r.Rooms,
		TimeSlots:    r.TimeSlots,
		Availability: r.Availability,
	}
}

// CatalogService manages the entities a timetable is built from.
type CatalogService struct {
	repos     CatalogRepositories
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repos CatalogRepositories, tx txProvider, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repos: repos, tx: tx, validator: validate, logger: logger}
}

func (s *CatalogService) validate(payload interface{}, what string) error {
	if err := s.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+what+" payload")
	}
	return nil
}

func lookupError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+what)
}

func writeError(err error, action, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+action+" "+what)
}

// deleteError reports a row that stored timetable entries still point at as a conflict. The timetable only
// changes through a run, so the caller has to regenerate or clear it first.
func deleteError(err error, what string) error {
	if database.IsForeignKeyViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
			what+" is scheduled; regenerate or clear the timetable first")
	}
	return writeError(err, "delete", what)
}

// ListFaculties returns faculties in scheduling order.
func (s *CatalogService) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	items, err := s.repos.Faculties.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculties")
	}
	if items == nil {
		items = []models.Faculty{}
	}
	return items, nil
}

// GetFaculty returns a faculty by id.
func (s *CatalogService) GetFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.repos.Faculties.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "faculty")
	}
	return faculty, nil
}

// CreateFaculty adds a faculty.
func (s *CatalogService) CreateFaculty(ctx context.Context, req dto.FacultyRequest) (*models.Faculty, error) {
	if err := s.validate(req, "faculty"); err != nil {
		return nil, err
	}
	faculty := &models.Faculty{ID: strings.TrimSpace(req.ID), Name: strings.TrimSpace(req.Name), MaxLoad: req.MaxLoad}
	if err := s.repos.Faculties.Create(ctx, nil, faculty); err != nil {
		return nil, writeError(err, "create", "faculty")
	}
	return faculty, nil
}

// UpdateFaculty modifies a faculty.
func (s *CatalogService) UpdateFaculty(ctx context.Context, id string, req dto.FacultyRequest) (*models.Faculty, error) {
	if err := s.validate(req, "faculty"); err != nil {
		return nil, err
	}
	faculty, err := s.repos.Faculties.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "faculty")
	}
	faculty.Name = strings.TrimSpace(req.Name)
	faculty.MaxLoad = req.MaxLoad
	if err := s.repos.Faculties.Update(ctx, faculty); err != nil {
		return nil, writeError(err, "update", "faculty")
	}
	return faculty, nil
}

// DeleteFaculty removes a faculty together with its availability and assignments.
func (s *CatalogService) DeleteFaculty(ctx context.Context, id string) error {
	if err := s.repos.Faculties.Delete(ctx, id); err != nil {
		return deleteError(err, "faculty")
	}
	return nil
}

// ListCourses returns courses in scheduling order.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	items, err := s.repos.Courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if items == nil {
		items = []models.Course{}
	}
	return items, nil
}

// GetCourse returns a course by id.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repos.Courses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	return course, nil
}

// CreateCourse adds a course.
func (s *CatalogService) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validate(req, "course"); err != nil {
		return nil, err
	}
	course := &models.Course{
		ID:              strings.TrimSpace(req.ID),
		Name:            strings.TrimSpace(req.Name),
		Kind:            models.SessionKind(req.Kind),
		SessionsPerWeek: req.SessionsPerWeek,
	}
	if err := s.repos.Courses.Create(ctx, nil, course); err != nil {
		return nil, writeError(err, "create", "course")
	}
	return course, nil
}

// UpdateCourse modifies a course.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validate(req, "course"); err != nil {
		return nil, err
	}
	course, err := s.repos.Courses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	course.Name = strings.TrimSpace(req.Name)
	course.Kind = models.SessionKind(req.Kind)
	if req.SessionsPerWeek > 0 {
		course.SessionsPerWeek = req.SessionsPerWeek
	}
	if err := s.repos.Courses.Update(ctx, course); err != nil {
		return nil, writeError(err, "update", "course")
	}
	return course, nil
}

// DeleteCourse removes a course.
func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.repos.Courses.Delete(ctx, id); err != nil {
		return deleteError(err, "course")
	}
	return nil
}

// ListSections returns sections in scheduling order.
func (s *CatalogService) ListSections(ctx context.Context) ([]models.Section, error) {
	items, err := s.repos.Sections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	if items == nil {
		items = []models.Section{}
	}
	return items, nil
}

// GetSection returns a section by id.
func (s *CatalogService) GetSection(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repos.Sections.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "section")
	}
	return section, nil
}

// CreateSection adds a section.
func (s *CatalogService) CreateSection(ctx context.Context, req dto.SectionRequest) (*models.Section, error) {
	if err := s.validate(req, "section"); err != nil {
		return nil, err
	}
	section := &models.Section{
		ID:           strings.TrimSpace(req.ID),
		Name:         strings.TrimSpace(req.Name),
		StudentCount: req.StudentCount,
		Program:      req.Program,
		Batch:        req.Batch,
	}
	if err := s.repos.Sections.Create(ctx, nil, section); err != nil {
		return nil, writeError(err, "create", "section")
	}
	return section, nil
}

// UpdateSection modifies a section.
func (s *CatalogService) UpdateSection(ctx context.Context, id string, req dto.SectionRequest) (*models.Section, error) {
	if err := s.validate(req, "section"); err != nil {
		return nil, err
	}
	section, err := s.repos.Sections.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "section")
	}
	section.Name = strings.TrimSpace(req.Name)
	section.StudentCount = req.StudentCount
	section.Program = req.Program
	section.Batch = req.Batch
	if err := s.repos.Sections.Update(ctx, section); err != nil {
		return nil, writeError(err, "update", "section")
	}
	return section, nil
}

// DeleteSection removes a section.
func (s *CatalogService) DeleteSection(ctx context.Context, id string) error {
	if err := s.repos.Sections.Delete(ctx, id); err != nil {
		return deleteError(err, "section")
	}
	return nil
}

// ListRooms returns rooms in scheduling order.
func (s *CatalogService) ListRooms(ctx context.Context) ([]models.Room, error) {
	items, err := s.repos.Rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	if items == nil {
		items = []models.Room{}
	}
	return items, nil
}

// GetRoom returns a room by id.
func (s *CatalogService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repos.Rooms.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "room")
	}
	return room, nil
}

// CreateRoom adds a room.
func (s *CatalogService) CreateRoom(ctx context.Context, req dto.RoomRequest) (*models.Room, error) {
	if err := s.validate(req, "room"); err != nil {
		return nil, err
	}
	room := &models.Room{
		ID:       strings.TrimSpace(req.ID),
		Name:     strings.TrimSpace(req.Name),
		Kind:     models.SessionKind(req.Kind),
		Capacity: req.Capacity,
	}
	if err := s.repos.Rooms.Create(ctx, nil, room); err != nil {
		return nil, writeError(err, "create", "room")
	}
	return room, nil
}

// UpdateRoom modifies a room.
func (s *CatalogService) UpdateRoom(ctx context.Context, id string, req dto.RoomRequest) (*models.Room, error) {
	if err := s.validate(req, "room"); err != nil {
		return nil, err
	}
	room, err := s.repos.Rooms.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "room")
	}
	room.Name = strings.TrimSpace(req.Name)
	room.Kind = models.SessionKind(req.Kind)
	room.Capacity = req.Capacity
	if err := s.repos.Rooms.Update(ctx, room); err != nil {
		return nil, writeError(err, "update", "room")
	}
	return room, nil
}

// DeleteRoom removes a room.
func (s *CatalogService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.repos.Rooms.Delete(ctx, id); err != nil {
		return deleteError(err, "room")
	}
	return nil
}

// ListTimeSlots returns timeslots in scheduling order.
func (s *CatalogService) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	items, err := s.repos.TimeSlots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	if items == nil {
		items = []models.TimeSlot{}
	}
	return items, nil
}

// GetTimeSlot returns a timeslot by id.
func (s *CatalogService) GetTimeSlot(ctx context.Context, id string) (*models.TimeSlot, error) {
	slot, err := s.repos.TimeSlots.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "timeslot")
	}
	return slot, nil
}

// CreateTimeSlot adds a timeslot; (day, slot) must be unused.
func (s *CatalogService) CreateTimeSlot(ctx context.Context, req dto.TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validate(req, "timeslot"); err != nil {
		return nil, err
	}
	day := strings.ToUpper(strings.TrimSpace(req.Day))
	exists, err := s.repos.TimeSlots.ExistsByDaySlot(ctx, day, req.Slot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timeslot")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "timeslot already exists for day and slot")
	}
	slot := &models.TimeSlot{
		ID:        strings.TrimSpace(req.ID),
		Day:       day,
		Slot:      req.Slot,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.repos.TimeSlots.Create(ctx, nil, slot); err != nil {
		return nil, writeError(err, "create", "timeslot")
	}
	return slot, nil
}

// UpdateTimeSlot changes a timeslot; a new (day, slot) must be unused.
func (s *CatalogService) UpdateTimeSlot(ctx context.Context, id string, req dto.TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validate(req, "timeslot"); err != nil {
		return nil, err
	}
	slot, err := s.repos.TimeSlots.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "timeslot")
	}
	day := strings.ToUpper(strings.TrimSpace(req.Day))
	if day != slot.Day || req.Slot != slot.Slot {
		exists, err := s.repos.TimeSlots.ExistsByDaySlot(ctx, day, req.Slot)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timeslot")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "timeslot already exists for day and slot")
		}
	}
	slot.Day = day
	slot.Slot = req.Slot
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	if err := s.repos.TimeSlots.Update(ctx, slot); err != nil {
		return nil, writeError(err, "update", "timeslot")
	}
	return slot, nil
}

// DeleteTimeSlot removes a timeslot.
func (s *CatalogService) DeleteTimeSlot(ctx context.Context, id string) error {
	if err := s.repos.TimeSlots.Delete(ctx, id); err != nil {
		return deleteError(err, "timeslot")
	}
	return nil
}

// ListAvailability returns availability records, optionally for one faculty.
func (s *CatalogService) ListAvailability(ctx context.Context, facultyID string) ([]models.Availability, error) {
	items, err := s.repos.Availability.List(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	if items == nil {
		items = []models.Availability{}
	}
	return items, nil
}

// SetAvailability records whether a faculty can teach at a timeslot, replacing any earlier record for the pair.
func (s *CatalogService) SetAvailability(ctx context.Context, req dto.AvailabilityRequest) (*models.Availability, error) {
	if err := s.validate(req, "availability"); err != nil {
		return nil, err
	}
	if _, err := s.repos.Faculties.FindByID(ctx, req.FacultyID); err != nil {
		return nil, lookupError(err, "faculty")
	}
	if _, err := s.repos.TimeSlots.FindByID(ctx, req.TimeSlotID); err != nil {
		return nil, lookupError(err, "timeslot")
	}
	record := &models.Availability{FacultyID: req.FacultyID, TimeSlotID: req.TimeSlotID, IsAvailable: *req.IsAvailable}
	if err := s.repos.Availability.Upsert(ctx, nil, record); err != nil {
		return nil, writeError(err, "store", "availability")
	}
	return record, nil
}

// DeleteAvailability removes an availability record, which makes the pair unavailable.
func (s *CatalogService) DeleteAvailability(ctx context.Context, id string) error {
	if err := s.repos.Availability.Delete(ctx, id); err != nil {
		return deleteError(err, "availability")
	}
	return nil
}

// Seed inserts a whole catalog in one transaction. Creation timestamps are spaced so listing returns the
// entities in the order they appear in the catalog.
func (s *CatalogService) Seed(ctx context.Context, catalog models.Catalog) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	base := time.Now().UTC()
	at := func(i int) time.Time { return base.Add(time.Duration(i) * time.Millisecond) }

	for i := range catalog.Faculties {
		catalog.Faculties[i].CreatedAt = at(i)
		if err = s.repos.Faculties.Create(ctx, tx, &catalog.Faculties[i]); err != nil {
			return writeError(err, "seed", "faculty")
		}
	}
	for i := range catalog.Courses {
		catalog.Courses[i].CreatedAt = at(i)
		if err = s.repos.Courses.Create(ctx, tx, &catalog.Courses[i]); err != nil {
			return writeError(err, "seed", "course")
		}
	}
	for i := range catalog.Sections {
		catalog.Sections[i].CreatedAt = at(i)
		if err = s.repos.Sections.Create(ctx, tx, &catalog.Sections[i]); err != nil {
			return writeError(err, "seed", "section")
		}
	}
	for i := range catalog.Rooms {
		catalog.Rooms[i].CreatedAt = at(i)
		if err = s.repos.Rooms.Create(ctx, tx, &catalog.Rooms[i]); err != nil {
			return writeError(err, "seed", "room")
		}
	}
	for i := range catalog.TimeSlots {
		catalog.TimeSlots[i].CreatedAt = at(i)
		if err = s.repos.TimeSlots.Create(ctx, tx, &catalog.TimeSlots[i]); err != nil {
			return writeError(err, "seed", "timeslot")
		}
	}
	for i := range catalog.Availability {
		catalog.Availability[i].CreatedAt = at(i)
		if err = s.repos.Availability.Upsert(ctx, tx, &catalog.Availability[i]); err != nil {
			return writeError(err, "seed", "availability")
		}
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit seed")
	}
	s.logger.Info("catalog seeded",
		zap.Int("faculties", len(catalog.Faculties)),
		zap.Int("courses", len(catalog.Courses)),
		zap.Int("sections", len(catalog.Sections)),
		zap.Int("rooms", len(catalog.Rooms)),
		zap.Int("timeslots", len(catalog.TimeSlots)),
		zap.Int("availability", len(catalog.Availability)),
	)
	return nil
}
