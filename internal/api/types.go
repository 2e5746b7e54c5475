package api

import (
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/service"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// RecipeRequest is the write-path submission for both create and update.
// Pointer fields distinguish omitted from empty; a nil Ingredients slice means
// the field was not supplied, which update treats as a validation error.
type RecipeRequest struct {
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	CookingTime *int                       `json:"cooking_time"`
	Image       *string                    `json:"image"`
	Ingredients []service.IngredientAmount `json:"ingredients"`
	Tags        *[]uuid.UUID               `json:"tags"`
}

func (r *RecipeRequest) toInput() service.RecipeInput {
	in := service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Image:       r.Image,
		Ingredients: r.Ingredients,
	}
	if r.Tags != nil {
		in.Tags = *r.Tags
		in.TagsSet = true
	}
	return in
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}
