// Package dataset reads scheduling catalogs from YAML or JSON files.
package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/timetable-api/internal/models"
)

// Dataset is the file representation of a catalog plus optional per-section demand.
type Dataset struct {
	Faculties    []models.Faculty      `mapstructure:"faculties"`
	Courses      []models.Course       `mapstructure:"courses"`
	Sections     []models.Section      `mapstructure:"sections"`
	Rooms        []models.Room         `mapstructure:"rooms"`
	TimeSlots    []models.TimeSlot     `mapstructure:"timeslots"`
	Availability []models.Availability `mapstructure:"availability"`
	Demand       map[string][]string   `mapstructure:"demand"`
}

// Catalog returns the entity collections in file order.
func (d *Dataset) Catalog() models.Catalog {
	return models.Catalog{
		Faculties:    d.Faculties,
		Courses:      d.Courses,
		Sections:     d.Sections,
		Rooms:        d.Rooms,
		TimeSlots:    d.TimeSlots,
		Availability: d.Availability,
	}
}

// Load reads and validates a dataset file. JSON is accepted because it is valid YAML.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates dataset bytes.
func Parse(raw []byte) (*Dataset, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	var ds Dataset
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &ds,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	normalise(&ds)
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func normalise(ds *Dataset) {
	for i := range ds.Courses {
		if ds.Courses[i].SessionsPerWeek <= 0 {
			ds.Courses[i].SessionsPerWeek = 1
		}
	}
}

// Validate checks identifiers, kinds and references. All problems are reported together.
func (d *Dataset) Validate() error {
	var errs []error

	errs = append(errs, checkIDs("faculty", lo.Map(d.Faculties, func(f models.Faculty, _ int) string { return f.ID }))...)
	errs = append(errs, checkIDs("course", lo.Map(d.Courses, func(c models.Course, _ int) string { return c.ID }))...)
	errs = append(errs, checkIDs("section", lo.Map(d.Sections, func(s models.Section, _ int) string { return s.ID }))...)
	errs = append(errs, checkIDs("room", lo.Map(d.Rooms, func(r models.Room, _ int) string { return r.ID }))...)
	errs = append(errs, checkIDs("timeslot", lo.Map(d.TimeSlots, func(t models.TimeSlot, _ int) string { return t.ID }))...)

	for _, c := range d.Courses {
		if !c.Kind.Valid() {
			errs = append(errs, fmt.Errorf("course %s: unknown kind %q", c.ID, c.Kind))
		}
	}
	for _, r := range d.Rooms {
		if !r.Kind.Valid() {
			errs = append(errs, fmt.Errorf("room %s: unknown kind %q", r.ID, r.Kind))
		}
		if r.Capacity < 0 {
			errs = append(errs, fmt.Errorf("room %s: negative capacity", r.ID))
		}
	}
	for _, s := range d.Sections {
		if s.StudentCount < 0 {
			errs = append(errs, fmt.Errorf("section %s: negative student count", s.ID))
		}
	}

	daySlots := lo.FindDuplicatesBy(d.TimeSlots, func(t models.TimeSlot) string { return t.Label() })
	for _, t := range daySlots {
		errs = append(errs, fmt.Errorf("timeslot %s: duplicate day and slot", t.Label()))
	}

	faculties := lo.SliceToMap(d.Faculties, func(f models.Faculty) (string, struct{}) { return f.ID, struct{}{} })
	slots := lo.SliceToMap(d.TimeSlots, func(t models.TimeSlot) (string, struct{}) { return t.ID, struct{}{} })
	for i, a := range d.Availability {
		if _, ok := faculties[a.FacultyID]; !ok {
			errs = append(errs, fmt.Errorf("availability #%d: unknown faculty %q", i+1, a.FacultyID))
		}
		if _, ok := slots[a.TimeSlotID]; !ok {
			errs = append(errs, fmt.Errorf("availability #%d: unknown timeslot %q", i+1, a.TimeSlotID))
		}
	}

	return errors.Join(errs...)
}

func checkIDs(entity string, ids []string) []error {
	var errs []error
	if lo.Contains(ids, "") {
		errs = append(errs, fmt.Errorf("every %s needs an id", entity))
	}
	for _, id := range lo.FindDuplicates(lo.Compact(ids)) {
		errs = append(errs, fmt.Errorf("duplicate %s id %q", entity, id))
	}
	return errs
}
