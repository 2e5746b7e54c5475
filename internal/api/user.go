package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

type UserHandler struct {
	profiles *service.ProfileService
}

func NewUserHandler(profiles *service.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, _ := strconv.Atoi(c.Query("page"))

	result, err := h.profiles.ListUsers(c.Request.Context(), limit, page, middleware.Principal(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	view, err := h.profiles.GetUser(c.Request.Context(), id, middleware.Principal(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Me(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	view, err := h.profiles.GetUser(c.Request.Context(), *principal, principal)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"avatar": []string{"This field is required."}})
		return
	}

	url, err := h.profiles.SetAvatar(c.Request.Context(), *principal, req.Avatar)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.profiles.ClearAvatar(c.Request.Context(), *principal); err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, _ := strconv.Atoi(c.Query("page"))

	result, err := h.profiles.Subscriptions(c.Request.Context(), *principal, recipesLimit, limit, page)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	principal := middleware.Principal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if c.Request.Method == http.MethodPost {
		recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))
		view, err := h.profiles.Subscribe(c.Request.Context(), *principal, id, recipesLimit)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
		return
	}

	if err := h.profiles.Unsubscribe(c.Request.Context(), *principal, id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
