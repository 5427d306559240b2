package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/timetable-api/internal/models"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type facultyLister interface {
	List(ctx context.Context) ([]models.Faculty, error)
}

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type sectionLister interface {
	List(ctx context.Context) ([]models.Section, error)
}

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

type timeslotLister interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
}

type availabilityLister interface {
	List(ctx context.Context, facultyID string) ([]models.Availability, error)
}

// CatalogReaders groups the repositories a scheduling catalog is read from.
type CatalogReaders struct {
	Faculties    facultyLister
	Courses      courseLister
	Sections     sectionLister
	Rooms        roomLister
	TimeSlots    timeslotLister
	Availability availabilityLister
}

// Load reads the six collections concurrently. The reads are independent; the first failure cancels the rest.
func (r CatalogReaders) Load(ctx context.Context) (models.Catalog, error) {
	var catalog models.Catalog
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		catalog.Faculties, err = r.Faculties.List(ctx)
		return wrapLoad("faculties", err)
	})
	g.Go(func() (err error) {
		catalog.Courses, err = r.Courses.List(ctx)
		return wrapLoad("courses", err)
	})
	g.Go(func() (err error) {
		catalog.Sections, err = r.Sections.List(ctx)
		return wrapLoad("sections", err)
	})
	g.Go(func() (err error) {
		catalog.Rooms, err = r.Rooms.List(ctx)
		return wrapLoad("rooms", err)
	})
	g.Go(func() (err error) {
		catalog.TimeSlots, err = r.TimeSlots.List(ctx)
		return wrapLoad("timeslots", err)
	})
	g.Go(func() (err error) {
		catalog.Availability, err = r.Availability.List(ctx, "")
		return wrapLoad("availability", err)
	})

	if err := g.Wait(); err != nil {
		return models.Catalog{}, err
	}
	return catalog, nil
}

func wrapLoad(what string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}
