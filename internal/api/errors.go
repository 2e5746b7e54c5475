package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/service"
)

// renderError maps the service error taxonomy onto HTTP responses: field
// errors become a per-field map, conflicts a message-only body, missing
// entities 404 and absent relations 400.
func renderError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	var conflictErr *service.ConflictError
	var notFoundErr *service.NotFoundError
	var forbiddenErr *service.ForbiddenError

	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{fieldErr.Field: []string{fieldErr.Message}})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": conflictErr.Message})
	case errors.As(err, &notFoundErr):
		if notFoundErr.Relation {
			c.JSON(http.StatusBadRequest, gin.H{"errors": notFoundErr.Message})
		} else {
			c.JSON(http.StatusNotFound, gin.H{"detail": notFoundErr.Message})
		}
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{"detail": forbiddenErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
