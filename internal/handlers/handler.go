package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Partial
// success never comes through here; batch operations report breakdowns with
// a 200.
func respondError(c *gin.Context, err error) {
	var cannotDelete *models.CannotDeleteError
	switch {
	case errors.As(err, &cannotDelete):
		c.JSON(http.StatusConflict, gin.H{"error": cannotDelete.Error(), "reason": cannotDelete.Reason})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNoAvailableNumbers):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrProcessing):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
