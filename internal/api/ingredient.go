package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// IngredientHandler serves the read-only ingredient catalog.
type IngredientHandler struct {
	db *gorm.DB
}

func NewIngredientHandler(db *gorm.DB) *IngredientHandler {
	return &IngredientHandler{db: db}
}

// likePrefix escapes LIKE metacharacters so the filter matches the raw prefix
// literally.
func likePrefix(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(name))
	return escaped + "%"
}

func ingredientView(ing *models.Ingredient) types.IngredientView {
	return types.IngredientView{
		ID:              ing.ID,
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}

// ListIngredients returns the catalog, optionally filtered by a
// case-insensitive name prefix. Unpaginated.
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	query := h.db

	if name := c.Query("name"); name != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePrefix(name))
	}

	var ingredients []models.Ingredient
	if err := query.Order("name").Find(&ingredients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ingredients"})
		return
	}

	views := make([]types.IngredientView, 0, len(ingredients))
	for i := range ingredients {
		views = append(views, ingredientView(&ingredients[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Ingredient not found"})
		return
	}

	var ingredient models.Ingredient
	if err := h.db.First(&ingredient, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Ingredient not found"})
		return
	}

	c.JSON(http.StatusOK, ingredientView(&ingredient))
}
