package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RunMigrations brings the schema up to date on either dialect. Postgres needs
// the pgvector extension before the recipes table can declare its embedding
// column.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return err
		}
	}

	log.Printf("Running schema migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
