// Command load_ingredients bulk-loads the ingredient catalog from a JSON file
// of {"name", "measurement_unit"} objects. Existing (name, unit) pairs are
// left untouched.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/models"
)

type ingredientEntry struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func main() {
	path := flag.String("file", "data/ingredients.json", "path to the ingredients JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}

	var entries []ingredientEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Fatalf("Failed to parse %s: %v", *path, err)
	}

	ingredients := make([]models.Ingredient, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.MeasurementUnit == "" {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:            e.Name,
			MeasurementUnit: e.MeasurementUnit,
		})
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(ingredients, 500)
	if result.Error != nil {
		log.Fatalf("Failed to load ingredients: %v", result.Error)
	}

	log.Printf("Loaded %d ingredients (%d rows inserted)", len(ingredients), result.RowsAffected)
}
