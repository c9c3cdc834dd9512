package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pitchwheel/pitch-api/internal/logger"
	"github.com/pitchwheel/pitch-api/internal/models"
	"github.com/pitchwheel/pitch-api/internal/pitchgen"
	"github.com/pitchwheel/pitch-api/internal/prompt"
	"github.com/pitchwheel/pitch-api/internal/wheel"
)

// Generator produces a pitch for a composed prompt
type Generator interface {
	GeneratePitch(ctx context.Context, prompt string) (*models.MoviePitch, error)
}

// PitchHandler orchestrates one request through the pipeline:
// bind, validate, compose, generate. It is the only place that maps
// failure kinds to HTTP status codes.
type PitchHandler struct {
	generator Generator
	builder   *prompt.Builder
}

// NewPitchHandler creates a new pitch handler
func NewPitchHandler(generator Generator) *PitchHandler {
	return &PitchHandler{
		generator: generator,
		builder:   prompt.NewBuilder(),
	}
}

// Generate handles POST /generate-pitch
func (h *PitchHandler) Generate(c *gin.Context) {
	var input wheel.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := input.Validate(); err != nil {
		var verr *wheel.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{
					"field":   verr.Field,
					"rule":    verr.Rule,
					"message": verr.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	pitchPrompt := h.builder.BuildPitchPrompt(&input)

	fields := logger.WithContext(c)
	fields["genres"] = strings.Join(input.Genres, ", ")
	fields["characters"] = strings.Join(input.Characters, ", ")
	logger.Info("Generating pitch", fields)

	pitch, err := h.generator.GeneratePitch(c.Request.Context(), pitchPrompt)
	if err != nil {
		// Detail was logged at the gateway; the caller gets a
		// generic failure regardless of cause.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI generation failed."})
		return
	}

	c.JSON(http.StatusOK, pitch)
}

// ensure the concrete service satisfies the handler's contract
var _ Generator = (*pitchgen.Service)(nil)
