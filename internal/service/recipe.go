package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// RecipeService owns the recipe aggregate: a recipe row plus its ingredient
// lines and tag links, changed as one consistency unit.
type RecipeService struct {
	db    *gorm.DB
	blobs BlobStore
}

func NewRecipeService(db *gorm.DB, blobs BlobStore) *RecipeService {
	return &RecipeService{
		db:    db,
		blobs: blobs,
	}
}

// IngredientAmount is one submitted ingredient line.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeInput carries a create or update submission. Nil pointers mean the
// field was omitted; on update every field except ingredients falls back to
// the stored value, while ingredients is mandatory.
type RecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *string
	Ingredients []IngredientAmount
	Tags        []uuid.UUID
	TagsSet     bool
}

// RecipeFilter narrows the recipe list.
type RecipeFilter struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Search    string
	Limit     int
	Page      int
}

const requiredMsg = "This field is required."

// Create validates the submission, stores the image blob and persists the
// aggregate in one transaction. The response is the read representation of the
// stored row.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*types.RecipeView, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &FieldError{Field: "name", Message: requiredMsg}
	}
	if in.Text == nil || *in.Text == "" {
		return nil, &FieldError{Field: "text", Message: requiredMsg}
	}
	if in.Image == nil || *in.Image == "" {
		return nil, &FieldError{Field: "image", Message: requiredMsg}
	}
	if in.CookingTime == nil {
		return nil, &FieldError{Field: "cooking_time", Message: requiredMsg}
	}
	if err := s.validateWrite(ctx, *in.CookingTime, in.Ingredients, in.Tags, in.TagsSet); err != nil {
		return nil, err
	}

	imageURL, err := s.blobs.UploadDataURI(ctx, *in.Image, "recipes")
	if err != nil {
		return nil, &FieldError{Field: "image", Message: err.Error()}
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        *in.Name,
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
		ImageURL:    imageURL,
		Embedding:   GenerateEmbedding(*in.Name + " " + *in.Text),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := createIngredientLines(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		if in.TagsSet {
			return replaceTags(tx, &recipe, in.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &authorID)
}

// Update applies a partial submission to an existing recipe. The ingredient
// line set is always replaced wholesale; tags are replaced only when supplied.
func (s *RecipeService) Update(ctx context.Context, recipeID, principal uuid.UUID, in RecipeInput) (*types.RecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Recipe not found"}
		}
		return nil, err
	}
	if recipe.AuthorID != principal {
		return nil, &ForbiddenError{Message: "Only the author may edit this recipe"}
	}

	cookingTime := recipe.CookingTime
	if in.CookingTime != nil {
		cookingTime = *in.CookingTime
	}
	if err := s.validateWrite(ctx, cookingTime, in.Ingredients, in.Tags, in.TagsSet); err != nil {
		return nil, err
	}

	if in.Name != nil {
		recipe.Name = *in.Name
	}
	if in.Text != nil {
		recipe.Text = *in.Text
	}
	recipe.CookingTime = cookingTime
	if in.Image != nil && *in.Image != "" {
		imageURL, err := s.blobs.UploadDataURI(ctx, *in.Image, "recipes")
		if err != nil {
			return nil, &FieldError{Field: "image", Message: err.Error()}
		}
		recipe.ImageURL = imageURL
	}
	recipe.Embedding = GenerateEmbedding(recipe.Name + " " + recipe.Text)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := createIngredientLines(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		if in.TagsSet {
			return replaceTags(tx, &recipe, in.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &principal)
}

// Delete removes a recipe together with its lines, tag links and relation rows.
func (s *RecipeService) Delete(ctx context.Context, recipeID, principal uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Message: "Recipe not found"}
		}
		return err
	}
	if recipe.AuthorID != principal {
		return &ForbiddenError{Message: "Only the author may delete this recipe"}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// validateWrite applies the aggregate validation rules in their fixed order;
// the first failure is the one reported.
func (s *RecipeService) validateWrite(ctx context.Context, cookingTime int, lines []IngredientAmount, tagIDs []uuid.UUID, tagsSet bool) error {
	if cookingTime < models.MinValue || cookingTime > models.MaxValue {
		return &FieldError{
			Field:   "cooking_time",
			Message: fmt.Sprintf("Must be between %d and %d.", models.MinValue, models.MaxValue),
		}
	}

	if lines == nil {
		return &FieldError{Field: "ingredients", Message: requiredMsg}
	}
	if len(lines) == 0 {
		return &FieldError{Field: "ingredients", Message: "This list may not be empty."}
	}

	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ID]; dup {
			return &FieldError{Field: "ingredients", Message: "Ingredients must not repeat."}
		}
		seen[line.ID] = struct{}{}
		ids = append(ids, line.ID)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&existing).Error; err != nil {
		return err
	}
	if existing != int64(len(ids)) {
		return &FieldError{Field: "ingredients", Message: "One or more ingredients do not exist."}
	}

	for _, line := range lines {
		if line.Amount < models.MinValue || line.Amount > models.MaxValue {
			return &FieldError{
				Field:   "ingredients",
				Message: fmt.Sprintf("Amount must be between %d and %d.", models.MinValue, models.MaxValue),
			}
		}
	}

	if tagsSet && len(tagIDs) > 0 {
		var tagCount int64
		if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&tagCount).Error; err != nil {
			return err
		}
		if tagCount != int64(len(tagIDs)) {
			return &FieldError{Field: "tags", Message: "One or more tags do not exist."}
		}
	}

	return nil
}

func createIngredientLines(tx *gorm.DB, recipeID uuid.UUID, lines []IngredientAmount) error {
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return tx.Create(&rows).Error
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []uuid.UUID) error {
	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}
	return tx.Model(recipe).Association("Tags").Replace(tags)
}

// Get renders a recipe with its embedded author, tags and ingredient lines.
// The viewer is the optional requesting principal; the viewer-relative flags
// are false for anonymous reads.
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Recipe not found"}
		}
		return nil, err
	}

	return s.render(ctx, &recipe, viewer)
}

// List returns a filtered, paginated page of recipe views.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter, viewer *uuid.UUID) (*types.Page, error) {
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Recipe{})

		if f.Author != nil {
			q = q.Where("recipes.author_id = ?", *f.Author)
		}
		if len(f.TagSlugs) > 0 {
			q = q.Where("recipes.id IN (?)", s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs))
		}
		if f.Favorited && viewer != nil {
			q = q.Where("recipes.id IN (?)", s.db.Table("favorites").
				Select("recipe_id").Where("user_id = ?", *viewer))
		}
		if f.InCart && viewer != nil {
			q = q.Where("recipes.id IN (?)", s.db.Table("shopping_carts").
				Select("recipe_id").Where("user_id = ?", *viewer))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	q := base().
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")

	if f.Search != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(f.Search)
			q = q.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(f.Search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(text) LIKE ?", like, like).
				Order("created_at DESC")
		}
	} else {
		q = q.Order("created_at DESC")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var recipes []models.Recipe
	if err := q.Limit(limit).Offset((page - 1) * limit).Find(&recipes).Error; err != nil {
		return nil, err
	}

	views := make([]*types.RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := s.render(ctx, &recipes[i], viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &types.Page{Count: total, Results: views}, nil
}

func (s *RecipeService) render(ctx context.Context, recipe *models.Recipe, viewer *uuid.UUID) (*types.RecipeView, error) {
	view := &types.RecipeView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Tags:        make([]types.TagView, 0, len(recipe.Tags)),
		Ingredients: make([]types.IngredientLineView, 0, len(recipe.Ingredients)),
	}

	for _, tag := range recipe.Tags {
		view.Tags = append(view.Tags, types.TagView{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug})
	}
	for _, line := range recipe.Ingredients {
		view.Ingredients = append(view.Ingredients, types.IngredientLineView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	author, err := renderUser(ctx, s.db, &recipe.Author, viewer)
	if err != nil {
		return nil, err
	}
	view.Author = *author

	if viewer != nil {
		var favorited, inCart int64
		if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&favorited).Error; err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&inCart).Error; err != nil {
			return nil, err
		}
		view.IsFavorited = favorited > 0
		view.IsInShoppingCart = inCart > 0
	}

	return view, nil
}

// Minified returns the short representation used by relation toggle responses.
func (s *RecipeService) Minified(ctx context.Context, recipeID uuid.UUID) (*types.RecipeMinified, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Recipe not found"}
		}
		return nil, err
	}
	return &types.RecipeMinified{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

// AddFavorite and the cart variants share the generic toggle; the target
// recipe must exist before the relation is touched.

func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeMinified, error) {
	minified, err := s.Minified(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := createRelation[models.Favorite, *models.Favorite](ctx, s.db, "recipe_id", "Already added", userID, recipeID); err != nil {
		return nil, err
	}
	return minified, nil
}

func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Minified(ctx, recipeID); err != nil {
		return err
	}
	return deleteRelation[models.Favorite](ctx, s.db, "recipe_id", "Object not found", userID, recipeID)
}

func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeMinified, error) {
	minified, err := s.Minified(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := createRelation[models.ShoppingCart, *models.ShoppingCart](ctx, s.db, "recipe_id", "Already added", userID, recipeID); err != nil {
		return nil, err
	}
	return minified, nil
}

func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Minified(ctx, recipeID); err != nil {
		return err
	}
	return deleteRelation[models.ShoppingCart](ctx, s.db, "recipe_id", "Object not found", userID, recipeID)
}

// ShoppingList aggregates every ingredient line of every recipe in the user's
// cart, grouped by (name, measurement unit) rather than catalog id, and
// renders the flat text report.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uuid.UUID) (string, error) {
	type row struct {
		Name            string
		MeasurementUnit string
		Total           int
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&rows).Error
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Shopping list:\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s (%s) — %d\n", r.Name, r.MeasurementUnit, r.Total)
	}
	return b.String(), nil
}
