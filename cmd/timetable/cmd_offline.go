package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-api/internal/dataset"
	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
)

var (
	offlineFile     string
	offlineStrategy string
	entriesFile     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a timetable from a dataset file without touching the database",
	RunE:  runGenerate,
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Audit a generated timetable for double bookings",
	Long: `Audit timetable entries (the JSON printed by generate) for faculty, room and section double
bookings. The dataset file supplies the names used in conflict reasons.`,
	RunE: runDetect,
}

func init() {
	generateCmd.Flags().StringVarP(&offlineFile, "file", "f", "", "Dataset file (YAML or JSON)")
	generateCmd.Flags().StringVar(&offlineStrategy, "strategy", "", "first_fit or backtracking (default SCHEDULER_STRATEGY)")
	_ = generateCmd.MarkFlagRequired("file")

	detectCmd.Flags().StringVarP(&offlineFile, "file", "f", "", "Dataset file (YAML or JSON)")
	detectCmd.Flags().StringVarP(&entriesFile, "entries", "e", "", "Timetable entries JSON, '-' for stdin")
	_ = detectCmd.MarkFlagRequired("file")
	_ = detectCmd.MarkFlagRequired("entries")
}

func loadDataset(path string) (*dataset.Dataset, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %s:\n%w", path, err)
	}
	return ds, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(offlineFile)
	if err != nil {
		return err
	}
	name := offlineStrategy
	if name == "" {
		name = cfg.Scheduler.Strategy
	}
	strategy, err := scheduler.StrategyByName(name, cfg.Scheduler.BacktrackBudget)
	if err != nil {
		return err
	}

	engine := scheduler.NewEngine(scheduler.Options{
		Strategy:             strategy,
		EnforceMaxLoad:       cfg.Scheduler.EnforceMaxLoad,
		ExpandWeeklySessions: cfg.Scheduler.ExpandWeeklySessions,
	})
	catalog := ds.Catalog()
	entries, err := engine.Run(scheduler.Input{
		Sections:     catalog.Sections,
		Courses:      catalog.Courses,
		Faculties:    catalog.Faculties,
		Rooms:        catalog.Rooms,
		TimeSlots:    catalog.TimeSlots,
		Availability: scheduler.NewAvailabilityIndex(catalog.Availability),
		Demand:       ds.Demand,
	})
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	for i := range entries {
		entries[i].ID = uuid.NewString()
		entries[i].RunID = runID
	}
	return writeJSON(cmd.OutOrStdout(), entries)
}

func runDetect(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(offlineFile)
	if err != nil {
		return err
	}

	var raw []byte
	if entriesFile == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(entriesFile)
	}
	if err != nil {
		return fmt.Errorf("read entries: %w", err)
	}
	var entries []models.Assignment
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decode entries: %w", err)
	}

	conflicts := scheduler.NewDetector(scheduler.LabelsFromCatalog(ds.Catalog())).Detect(entries)
	return writeJSON(cmd.OutOrStdout(), dto.ConflictReport{Conflicts: conflicts, Summary: scheduler.Summarize(conflicts)})
}
