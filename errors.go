package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds surfaced by the domain operations. Handlers translate them with
// respondErr: validation → 400, not found → 404, anything else → 500.
// Validation and not-found are always detected before any mutation.
var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
