package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

func newTimetableFixture(t *testing.T, catalog models.Catalog, cfg TimetableConfig) (*TimetableService, *memTimetableStore, *MetricsService, func() error) {
	t.Helper()
	db, mock := newTxMock(t)
	store := &memTimetableStore{entries: []models.Assignment{{ID: "old", SectionID: "s-prev"}}}
	metrics := NewMetricsService()
	svc := NewTimetableService(newMemCatalog(catalog).repositories().Readers(), store, db, nil, metrics, nil, nil, cfg)
	return svc, store, metrics, mock.ExpectationsWereMet
}

func TestTimetableServiceGenerateReplacesStoredTimetable(t *testing.T) {
	db, mock := newTxMock(t)
	store := &memTimetableStore{entries: []models.Assignment{{ID: "old", SectionID: "s-prev"}}}
	metrics := NewMetricsService()
	svc := NewTimetableService(newMemCatalog(oneSessionCatalog(30, 40)).repositories().Readers(), store, db, nil, metrics, nil, nil, TimetableConfig{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)

	entry := resp.Entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, resp.Run.ID, entry.RunID)
	assert.Equal(t, "s1", entry.SectionID)
	assert.Equal(t, "f1", entry.FacultyID)
	assert.Equal(t, "r1", entry.RoomID)
	assert.Equal(t, "ts-1", entry.TimeSlotID)

	assert.Equal(t, resp.Entries, store.entries)
	require.Len(t, store.runs, 1)
	assert.Equal(t, models.RunStatusSucceeded, store.runs[0].Status)
	assert.Equal(t, "first_fit", store.runs[0].Strategy)
	assert.Equal(t, 1, store.runs[0].Entries)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.TimetableRuns)
	assert.Zero(t, snapshot.TimetableFailures)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceGenerateInfeasibleKeepsPriorTimetable(t *testing.T) {
	svc, store, metrics, verify := newTimetableFixture(t, oneSessionCatalog(100, 50), TimetableConfig{})

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	assert.Nil(t, resp)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInfeasible.Code, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Contains(t, appErr.Message, "Algebra")
	assert.Contains(t, appErr.Message, "CS-A")

	require.Len(t, store.entries, 1)
	assert.Equal(t, "old", store.entries[0].ID)
	require.Len(t, store.runs, 1)
	assert.Equal(t, models.RunStatusFailed, store.runs[0].Status)
	require.NotNil(t, store.runs[0].Error)
	assert.Equal(t, uint64(1), metrics.Snapshot().TimetableFailures)
	assert.NoError(t, verify())
}

func TestTimetableServiceGenerateRejectsMalformedDemand(t *testing.T) {
	svc, store, _, verify := newTimetableFixture(t, oneSessionCatalog(30, 40), TimetableConfig{})

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Demand: map[string][]string{"s1": {"missing"}}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrMalformedInput.Code, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "old", store.entries[0].ID)
	assert.NoError(t, verify())
}

func TestTimetableServiceGenerateRejectsUnknownStrategy(t *testing.T) {
	svc, store, _, verify := newTimetableFixture(t, oneSessionCatalog(30, 40), TimetableConfig{})

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Strategy: "simulated_annealing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.runs)
	assert.NoError(t, verify())
}

func TestTimetableServiceGenerateRollsBackOnStoreFailure(t *testing.T) {
	db, mock := newTxMock(t)
	store := &memTimetableStore{replaceErr: errors.New("disk full")}
	svc := NewTimetableService(newMemCatalog(oneSessionCatalog(30, 40)).repositories().Readers(), store, db, nil, nil, nil, nil, TimetableConfig{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceBacktrackingRecoversFromGreedyDeadEnd(t *testing.T) {
	catalog := models.Catalog{
		Faculties: []models.Faculty{{ID: "f1", Name: "Dr. Ada"}, {ID: "f2", Name: "Dr. Grace"}},
		Courses:   []models.Course{{ID: "c1", Name: "Algebra", Kind: models.SessionKindTheory}},
		Sections: []models.Section{
			{ID: "s1", Name: "Small", StudentCount: 10},
			{ID: "s2", Name: "Large", StudentCount: 80},
		},
		Rooms: []models.Room{
			{ID: "big", Name: "Auditorium", Kind: models.SessionKindTheory, Capacity: 100},
			{ID: "small", Name: "Seminar", Kind: models.SessionKindTheory, Capacity: 20},
		},
		TimeSlots: []models.TimeSlot{{ID: "ts-1", Day: "MONDAY", Slot: 1}},
		Availability: []models.Availability{
			{FacultyID: "f1", TimeSlotID: "ts-1", IsAvailable: true},
			{FacultyID: "f2", TimeSlotID: "ts-1", IsAvailable: true},
		},
	}
	db, mock := newTxMock(t)
	store := &memTimetableStore{}
	svc := NewTimetableService(newMemCatalog(catalog).repositories().Readers(), store, db, nil, nil, nil, nil, TimetableConfig{})

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInfeasible.Code, appErrors.FromError(err).Code)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Strategy: "backtracking"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "small", resp.Entries[0].RoomID)
	assert.Equal(t, "big", resp.Entries[1].RoomID)
	assert.Equal(t, "backtracking", resp.Run.Strategy)

	require.Len(t, store.runs, 2)
	assert.Equal(t, models.RunStatusFailed, store.runs[0].Status)
	assert.Equal(t, models.RunStatusSucceeded, store.runs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceListUsesCache(t *testing.T) {
	db, _ := newTxMock(t)
	store := &memTimetableStore{entries: []models.Assignment{{ID: "e1", SectionID: "s1"}}}
	cacheRepo := newMemCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewTimetableService(newMemCatalog(models.Catalog{}).repositories().Readers(), store, db, cache, nil, nil, nil, TimetableConfig{})
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.listCalls)

	_, err = svc.Clear(ctx)
	require.NoError(t, err)
	third, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, third)
	assert.NotNil(t, third)
	assert.Equal(t, 2, store.listCalls)
}

func TestTimetableServiceGetMissingEntry(t *testing.T) {
	svc, _, _, _ := newTimetableFixture(t, models.Catalog{}, TimetableConfig{})

	entry, err := svc.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, "s-prev", entry.SectionID)

	_, err = svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestTimetableServiceExportCSV(t *testing.T) {
	svc, store, _, _ := newTimetableFixture(t, models.Catalog{}, TimetableConfig{})
	store.views = []models.TimetableEntryView{{
		Assignment:  models.Assignment{ID: "e1"},
		SectionName: "CS-A",
		CourseName:  "Algebra",
		CourseKind:  "theory",
		FacultyName: "Dr. Ada",
		RoomName:    "Hall A",
		Day:         "MONDAY",
		Slot:        1,
	}}

	out, format, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, format)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Day,Slot,Section,Course,Kind,Faculty,Room", lines[0])
	assert.Equal(t, "MONDAY,1,CS-A,Algebra,theory,Dr. Ada,Hall A", lines[1])

	_, _, err = svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceRuns(t *testing.T) {
	svc, store, _, _ := newTimetableFixture(t, models.Catalog{}, TimetableConfig{})

	runs, err := svc.Runs(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	store.runs = []models.TimetableRun{{ID: "r2"}, {ID: "r1"}}
	runs, err = svc.Runs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r2", runs[0].ID)
}
