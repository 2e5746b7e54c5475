package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

type RecipeHandler struct {
	recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Search:   c.Query("search"),
	}

	if author := c.Query("author"); author != "" {
		if id, err := uuid.Parse(author); err == nil {
			filter.Author = &id
		}
	}
	filter.Favorited = c.Query("is_favorited") == "1"
	filter.InCart = c.Query("is_in_shopping_cart") == "1"
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Page, _ = strconv.Atoi(c.Query("page"))

	page, err := h.recipes.List(c.Request.Context(), filter, middleware.Principal(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	view, err := h.recipes.Get(c.Request.Context(), id, middleware.Principal(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	view, err := h.recipes.Create(c.Request.Context(), *principal, req.toInput())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	view, err := h.recipes.Update(c.Request.Context(), id, *principal, req.toInput())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, *principal); err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// toggle wires one relation's POST/DELETE pair through the shared semantics:
// conflict on duplicate add, error on absent remove, 201 with the minified
// recipe on success.
func (h *RecipeHandler) toggle(
	c *gin.Context,
	add func(*gin.Context, uuid.UUID, uuid.UUID) error,
	remove func(*gin.Context, uuid.UUID, uuid.UUID) error,
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if c.Request.Method == http.MethodPost {
		if err := add(c, *principal, id); err != nil {
			renderError(c, err)
		}
		return
	}

	if err := remove(c, *principal, id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.toggle(c,
		func(c *gin.Context, userID, recipeID uuid.UUID) error {
			minified, err := h.recipes.AddFavorite(c.Request.Context(), userID, recipeID)
			if err != nil {
				return err
			}
			c.JSON(http.StatusCreated, minified)
			return nil
		},
		func(c *gin.Context, userID, recipeID uuid.UUID) error {
			return h.recipes.RemoveFavorite(c.Request.Context(), userID, recipeID)
		},
	)
}

func (h *RecipeHandler) ShoppingCart(c *gin.Context) {
	h.toggle(c,
		func(c *gin.Context, userID, recipeID uuid.UUID) error {
			minified, err := h.recipes.AddToCart(c.Request.Context(), userID, recipeID)
			if err != nil {
				return err
			}
			c.JSON(http.StatusCreated, minified)
			return nil
		},
		func(c *gin.Context, userID, recipeID uuid.UUID) error {
			return h.recipes.RemoveFromCart(c.Request.Context(), userID, recipeID)
		},
	)
}

// DownloadShoppingCart returns the aggregated shopping list as a text
// attachment with a fixed filename.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	list, err := h.recipes.ShoppingList(c.Request.Context(), *principal)
	if err != nil {
		renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list))
}

// GetLink echoes a canonical absolute URL to the recipe detail page.
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	if _, err := h.recipes.Minified(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	link := fmt.Sprintf("%s://%s/recipes/%s/", scheme, c.Request.Host, id)
	c.JSON(http.StatusOK, gin.H{"short-link": link})
}
