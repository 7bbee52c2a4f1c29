// Command loaddata bulk-loads reference data from CSV files:
//
//	loaddata -ingredients data/ingredients.csv -tags data/tags.csv
//
// Ingredient rows are "name,measurement_unit"; tag rows are
// "name,color,slug". Loading is idempotent: rows that already exist are
// skipped.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/foodplate/foodplate-backend/internal/config"
	"github.com/foodplate/foodplate-backend/internal/database"
	"github.com/foodplate/foodplate-backend/internal/logging"
	"github.com/foodplate/foodplate-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	logging.Setup()

	ingredientsPath := flag.String("ingredients", "", "CSV file with name,measurement_unit rows")
	tagsPath := flag.String("tags", "", "CSV file with name,color,slug rows")
	flag.Parse()

	if *ingredientsPath == "" && *tagsPath == "" {
		slog.Error("nothing to load: pass -ingredients and/or -tags")
		os.Exit(1)
	}

	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if *ingredientsPath != "" {
		n, err := loadIngredients(database.DB, *ingredientsPath)
		if err != nil {
			slog.Error("ingredient load failed", "path", *ingredientsPath, "error", err)
			os.Exit(1)
		}
		slog.Info("ingredients loaded", "rows", n)
	}

	if *tagsPath != "" {
		n, err := loadTags(database.DB, *tagsPath)
		if err != nil {
			slog.Error("tag load failed", "path", *tagsPath, "error", err)
			os.Exit(1)
		}
		slog.Info("tags loaded", "rows", n)
	}
}

func loadIngredients(db *gorm.DB, path string) (int, error) {
	var rows []models.Ingredient
	err := readCSV(path, 2, func(record []string) {
		rows = append(rows, models.Ingredient{Name: record[0], MeasurementUnit: record[1]})
	})
	if err != nil {
		return 0, err
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 500)
	return int(res.RowsAffected), res.Error
}

func loadTags(db *gorm.DB, path string) (int, error) {
	var rows []models.Tag
	err := readCSV(path, 3, func(record []string) {
		rows = append(rows, models.Tag{Name: record[0], Color: record[1], Slug: record[2]})
	})
	if err != nil {
		return 0, err
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 500)
	return int(res.RowsAffected), res.Error
}

func readCSV(path string, fields int, row func(record []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		row(record)
	}
}
