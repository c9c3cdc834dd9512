package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apimiddleware "github.com/pitchwheel/pitch-api/internal/api/middleware"
	"github.com/pitchwheel/pitch-api/internal/models"
	"github.com/pitchwheel/pitch-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	pitch *models.MoviePitch
	err   error

	calls      int
	lastPrompt string
}

func (g *stubGenerator) GeneratePitch(_ context.Context, prompt string) (*models.MoviePitch, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return nil, g.err
	}
	return g.pitch, nil
}

func newTestRouter(gen Generator, limiter *ratelimit.SlidingWindow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewPitchHandler(gen)
	router.POST("/generate-pitch", apimiddleware.RateLimit(limiter, nil), handler.Generate)

	healthHandler := NewHealthHandler("test")
	router.GET("/health", healthHandler.HealthCheck)

	return router
}

func defaultLimiter() *ratelimit.SlidingWindow {
	return ratelimit.NewSlidingWindow(10, time.Minute)
}

func postPitch(router *gin.Engine, body string, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate-pitch", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validBody = `{
	"characters": ["A Grizzled Detective"],
	"locations": ["Mars Colony"],
	"genres": ["Noir", "Sci-Fi"],
	"creatives": ["Wes Anderson"]
}`

func TestGeneratePitchSuccess(t *testing.T) {
	gen := &stubGenerator{pitch: &models.MoviePitch{
		Title:   "Red Dust Noir",
		Tagline: "On Mars, every shadow lies.",
		Pitch:   "A detective hunts a killer through a pastel Mars colony.",
	}}
	router := newTestRouter(gen, defaultLimiter())

	w := postPitch(router, validBody, "1.2.3.4:5678")
	require.Equal(t, http.StatusOK, w.Code)

	var pitch models.MoviePitch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pitch))
	assert.NotEmpty(t, pitch.Title)
	assert.NotEmpty(t, pitch.Tagline)
	assert.NotEmpty(t, pitch.Pitch)

	// Handler composed a prompt from the wheel input
	assert.Contains(t, gen.lastPrompt, "Noir, Sci-Fi")
	assert.Contains(t, gen.lastPrompt, "A Grizzled Detective")
}

func TestGeneratePitchEmptyGenres(t *testing.T) {
	gen := &stubGenerator{pitch: &models.MoviePitch{Title: "T", Tagline: "G", Pitch: "P"}}
	router := newTestRouter(gen, defaultLimiter())

	body := `{
		"characters": ["A Grizzled Detective"],
		"locations": ["Mars Colony"],
		"genres": [],
		"creatives": ["Wes Anderson"]
	}`
	w := postPitch(router, body, "1.2.3.4:5678")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "genres")
	assert.Contains(t, w.Body.String(), "EmptyList")
	assert.Zero(t, gen.calls, "generation must not run for invalid input")
}

func TestGeneratePitchValidationRejections(t *testing.T) {
	longItem := make([]byte, 101)
	for i := range longItem {
		longItem[i] = 'x'
	}

	tests := []struct {
		name     string
		body     string
		wantRule string
	}{
		{
			name:     "too many genres",
			body:     `{"characters":["A"],"locations":["B"],"genres":["1","2","3","4","5","6"],"creatives":["C"]}`,
			wantRule: "TooManyItems",
		},
		{
			name:     "item too long",
			body:     `{"characters":["` + string(longItem) + `"],"locations":["B"],"genres":["G"],"creatives":["C"]}`,
			wantRule: "ItemTooLong",
		},
		{
			name:     "whitespace item",
			body:     `{"characters":["A"],"locations":["   "],"genres":["G"],"creatives":["C"]}`,
			wantRule: "EmptyItem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubGenerator{}, defaultLimiter())
			w := postPitch(router, tt.body, "1.2.3.4:5678")

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantRule)
		})
	}
}

func TestGeneratePitchMalformedBody(t *testing.T) {
	router := newTestRouter(&stubGenerator{}, defaultLimiter())

	w := postPitch(router, `{"characters": [`, "1.2.3.4:5678")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeneratePitchGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider exploded with internal detail")}
	router := newTestRouter(gen, defaultLimiter())

	w := postPitch(router, validBody, "1.2.3.4:5678")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "AI generation failed.")
	// Internal error detail must never leak to the caller.
	assert.NotContains(t, w.Body.String(), "internal detail")
}

func TestGeneratePitchRateLimited(t *testing.T) {
	gen := &stubGenerator{pitch: &models.MoviePitch{Title: "T", Tagline: "G", Pitch: "P"}}
	router := newTestRouter(gen, defaultLimiter())

	for i := 0; i < 10; i++ {
		w := postPitch(router, validBody, "1.2.3.4:5678")
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := postPitch(router, validBody, "1.2.3.4:5678")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	// The burst ran within the same instant, so just under a full
	// window remains; the header must round up, not down.
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, 10, gen.calls, "the 11th request must not reach generation")

	// A different client is unaffected.
	w = postPitch(router, validBody, "8.8.8.8:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}

// The rate limiter is the first gate: a rejected request is rejected
// even when its body would also fail validation.
func TestRateLimitShortCircuitsBeforeValidation(t *testing.T) {
	router := newTestRouter(&stubGenerator{pitch: &models.MoviePitch{Title: "T", Tagline: "G", Pitch: "P"}}, ratelimit.NewSlidingWindow(1, time.Minute))

	w := postPitch(router, validBody, "1.2.3.4:5678")
	require.Equal(t, http.StatusOK, w.Code)

	w = postPitch(router, `{"genres": []}`, "1.2.3.4:5678")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubGenerator{}, ratelimit.NewSlidingWindow(1, time.Minute))

	// Exhaust the pitch route's limiter first; health must be unaffected.
	postPitch(router, validBody, "1.2.3.4:5678")
	postPitch(router, validBody, "1.2.3.4:5678")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
