package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// HealthCheck returns the health status of the API. It is stateless
// and independent of the generation pipeline and rate limiter.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
	})
}
