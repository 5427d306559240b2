package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// memRepo is an ordered in-memory store shared by the catalog fakes.
type memRepo[T any] struct {
	items     []T
	idOf      func(*T) *string
	listErr   error
	createErr error
	deleteErr error
	seq       int
}

func (m *memRepo[T]) List(context.Context) ([]T, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]T(nil), m.items...), nil
}

func (m *memRepo[T]) index(id string) int {
	for i := range m.items {
		if *m.idOf(&m.items[i]) == id {
			return i
		}
	}
	return -1
}

func (m *memRepo[T]) FindByID(_ context.Context, id string) (*T, error) {
	i := m.index(id)
	if i < 0 {
		return nil, sql.ErrNoRows
	}
	cp := m.items[i]
	return &cp, nil
}

func (m *memRepo[T]) Create(_ context.Context, _ sqlx.ExtContext, item *T) error {
	if m.createErr != nil {
		return m.createErr
	}
	if *m.idOf(item) == "" {
		m.seq++
		*m.idOf(item) = fmt.Sprintf("gen-%d", m.seq)
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *memRepo[T]) Update(_ context.Context, item *T) error {
	i := m.index(*m.idOf(item))
	if i < 0 {
		return sql.ErrNoRows
	}
	m.items[i] = *item
	return nil
}

func (m *memRepo[T]) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	i := m.index(id)
	if i < 0 {
		return sql.ErrNoRows
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

type memTimeSlots struct {
	*memRepo[models.TimeSlot]
}

func (m memTimeSlots) ExistsByDaySlot(_ context.Context, day string, slot int) (bool, error) {
	for _, s := range m.items {
		if s.Day == day && s.Slot == slot {
			return true, nil
		}
	}
	return false, nil
}

type memAvailability struct {
	items []models.Availability
	seq   int
}

func (m *memAvailability) List(_ context.Context, facultyID string) ([]models.Availability, error) {
	var out []models.Availability
	for _, a := range m.items {
		if facultyID == "" || a.FacultyID == facultyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAvailability) Upsert(_ context.Context, _ sqlx.ExtContext, record *models.Availability) error {
	for i, a := range m.items {
		if a.FacultyID == record.FacultyID && a.TimeSlotID == record.TimeSlotID {
			record.ID = a.ID
			m.items[i] = *record
			return nil
		}
	}
	if record.ID == "" {
		m.seq++
		record.ID = fmt.Sprintf("av-%d", m.seq)
	}
	m.items = append(m.items, *record)
	return nil
}

func (m *memAvailability) Delete(_ context.Context, id string) error {
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memCatalog struct {
	faculties    *memRepo[models.Faculty]
	courses      *memRepo[models.Course]
	sections     *memRepo[models.Section]
	rooms        *memRepo[models.Room]
	timeslots    memTimeSlots
	availability *memAvailability
}

func newMemCatalog(c models.Catalog) *memCatalog {
	return &memCatalog{
		faculties:    &memRepo[models.Faculty]{items: c.Faculties, idOf: func(f *models.Faculty) *string { return &f.ID }},
		courses:      &memRepo[models.Course]{items: c.Courses, idOf: func(c *models.Course) *string { return &c.ID }},
		sections:     &memRepo[models.Section]{items: c.Sections, idOf: func(s *models.Section) *string { return &s.ID }},
		rooms:        &memRepo[models.Room]{items: c.Rooms, idOf: func(r *models.Room) *string { return &r.ID }},
		timeslots:    memTimeSlots{&memRepo[models.TimeSlot]{items: c.TimeSlots, idOf: func(t *models.TimeSlot) *string { return &t.ID }}},
		availability: &memAvailability{items: c.Availability},
	}
}

func (m *memCatalog) repositories() CatalogRepositories {
	return CatalogRepositories{
		Faculties:    m.faculties,
		Courses:      m.courses,
		Sections:     m.sections,
		Rooms:        m.rooms,
		TimeSlots:    m.timeslots,
		Availability: m.availability,
	}
}

// oneSessionCatalog needs exactly one assignment: f1 teaches c1 to s1 in r1 at ts-1.
func oneSessionCatalog(students, capacity int) models.Catalog {
	return models.Catalog{
		Faculties:    []models.Faculty{{ID: "f1", Name: "Dr. Ada"}},
		Courses:      []models.Course{{ID: "c1", Name: "Algebra", Kind: models.SessionKindTheory, SessionsPerWeek: 1}},
		Sections:     []models.Section{{ID: "s1", Name: "CS-A", StudentCount: students}},
		Rooms:        []models.Room{{ID: "r1", Name: "Hall A", Kind: models.SessionKindTheory, Capacity: capacity}},
		TimeSlots:    []models.TimeSlot{{ID: "ts-1", Day: "MONDAY", Slot: 1}},
		Availability: []models.Availability{{ID: "a1", FacultyID: "f1", TimeSlotID: "ts-1", IsAvailable: true}},
	}
}

type memTimetableStore struct {
	entries    []models.Assignment
	views      []models.TimetableEntryView
	runs       []models.TimetableRun
	replaceErr error
	listErr    error
	listCalls  int
}

func (m *memTimetableStore) ListEntries(context.Context) ([]models.Assignment, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Assignment(nil), m.entries...), nil
}

func (m *memTimetableStore) ListEntryViews(context.Context) ([]models.TimetableEntryView, error) {
	return m.views, nil
}

func (m *memTimetableStore) FindEntryByID(_ context.Context, id string) (*models.Assignment, error) {
	for _, e := range m.entries {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memTimetableStore) ReplaceEntries(_ context.Context, _ sqlx.ExtContext, entries []models.Assignment) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.entries = append([]models.Assignment(nil), entries...)
	return nil
}

func (m *memTimetableStore) DeleteEntries(context.Context) (int64, error) {
	n := int64(len(m.entries))
	m.entries = nil
	return n, nil
}

func (m *memTimetableStore) CreateRun(_ context.Context, _ sqlx.ExtContext, run *models.TimetableRun) error {
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memTimetableStore) ListRuns(_ context.Context, limit int) ([]models.TimetableRun, error) {
	if limit > 0 && limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

type memCacheRepo struct {
	data map[string][]byte
	gets int
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{data: make(map[string][]byte)}
}

func (m *memCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}
