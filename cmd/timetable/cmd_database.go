package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dataset"
	"github.com/noah-isme/timetable-api/internal/server"
	"github.com/noah-isme/timetable-api/pkg/database"
)

var seedFile string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a catalog dataset into the database",
	Long: `Load faculties, courses, sections, rooms, timeslots and availability from a YAML or JSON
dataset. The whole dataset is written in one transaction.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Dataset file (YAML or JSON)")
	_ = seedCmd.MarkFlagRequired("file")
}

func openMigrated(cmd *cobra.Command) (*sqlx.DB, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(cmd.Context(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openMigrated(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	logr.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(seedFile)
	if err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("invalid dataset %s:\n%w", seedFile, err)
	}

	db, err := openMigrated(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	app := server.NewApp(cfg, logr, db, nil)
	if err := app.Catalog.Seed(cmd.Context(), ds.Catalog()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d faculties, %d courses, %d sections, %d rooms, %d timeslots, %d availability records\n",
		len(ds.Faculties), len(ds.Courses), len(ds.Sections), len(ds.Rooms), len(ds.TimeSlots), len(ds.Availability))
	return nil
}
