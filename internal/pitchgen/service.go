// Package pitchgen is the single point of contact with the external
// generation capability. Every provider failure, timeout or malformed
// output is collapsed into ErrGenerationFailed: raw detail is logged
// and traced internally but never surfaces to the caller.
package pitchgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/pitchwheel/pitch-api/internal/config"
	"github.com/pitchwheel/pitch-api/internal/llm"
	"github.com/pitchwheel/pitch-api/internal/logger"
	"github.com/pitchwheel/pitch-api/internal/metrics"
	"github.com/pitchwheel/pitch-api/internal/models"
	"github.com/pitchwheel/pitch-api/internal/observability"
)

// ErrGenerationFailed is the only error this package returns. The
// cause is logged internally; callers see an opaque failure.
var ErrGenerationFailed = errors.New("ai generation failed")

// systemPrompt is the scriptwriter persona sent with every request.
// It belongs to the gateway, not to prompt composition.
const systemPrompt = "You are a creative Hollywood scriptwriter. " +
	"Your goal is to blend potentially clashing genres, characters, and settings " +
	"into a cohesive, exciting movie pitch."

// ProviderSource resolves a provider for a model name
type ProviderSource interface {
	GetProvider(ctx context.Context, model, providerName string) (llm.Provider, error)
}

// Service generates movie pitches through an LLM provider
type Service struct {
	providers  ProviderSource
	model      string
	sentry     *metrics.SentryMetrics
	cloudwatch *metrics.Client
}

// New creates the generation service from configuration
func New(cfg *config.Config, cloudwatch *metrics.Client) *Service {
	return &Service{
		providers:  llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
		model:      cfg.PitchModel,
		sentry:     metrics.NewSentryMetrics(),
		cloudwatch: cloudwatch,
	}
}

// NewWithProviders creates the service with a custom provider source.
// Used by tests.
func NewWithProviders(providers ProviderSource, model string) *Service {
	return &Service{
		providers: providers,
		model:     model,
		sentry:    metrics.NewSentryMetrics(),
	}
}

// GeneratePitch runs one generation call for the composed prompt and
// returns the parsed pitch. No retries; no partial results.
func (s *Service) GeneratePitch(ctx context.Context, prompt string) (*models.MoviePitch, error) {
	startTime := time.Now()

	trace := observability.GetClient().StartTrace(ctx, "generate-pitch", map[string]interface{}{
		"model": s.model,
	})
	defer trace.Finish()

	gen := trace.Generation("pitch", nil)
	gen.Input(prompt)

	provider, err := s.providers.GetProvider(ctx, s.model, "")
	if err != nil {
		s.fail(ctx, gen, startTime, "No provider available for pitch generation", err)
		return nil, ErrGenerationFailed
	}

	request := &llm.GenerationRequest{
		Model:        s.model,
		SystemPrompt: systemPrompt,
		InputArray: []map[string]any{
			{"role": "user", "content": prompt},
		},
		OutputSchema: &llm.OutputSchema{
			Name:        llm.MoviePitchSchemaName,
			Description: "A structured movie pitch with title, tagline and plot",
			Schema:      llm.GetMoviePitchSchema(),
		},
	}

	response, err := provider.Generate(ctx, request)
	if err != nil {
		s.fail(ctx, gen, startTime, "Error generating pitch", err)
		return nil, ErrGenerationFailed
	}

	var pitch models.MoviePitch
	if err := json.Unmarshal([]byte(response.RawOutput), &pitch); err != nil {
		s.fail(ctx, gen, startTime, "Failed to parse pitch output", err)
		return nil, ErrGenerationFailed
	}

	if strings.TrimSpace(pitch.Title) == "" ||
		strings.TrimSpace(pitch.Tagline) == "" ||
		strings.TrimSpace(pitch.Pitch) == "" {
		s.fail(ctx, gen, startTime, "Pitch output missing required fields", errors.New("incomplete pitch from provider"))
		return nil, ErrGenerationFailed
	}

	s.sentry.RecordTokenUsage(ctx, s.model,
		response.Usage.TotalTokens, response.Usage.InputTokens, response.Usage.OutputTokens)
	s.sentry.RecordGenerationDuration(ctx, time.Since(startTime), true)
	if s.cloudwatch != nil {
		s.cloudwatch.RecordTokenUsage(s.model,
			response.Usage.TotalTokens, response.Usage.InputTokens, response.Usage.OutputTokens)
		s.cloudwatch.RecordGenerationDuration(time.Since(startTime), true)
	}

	gen.Output(pitch)
	gen.LogUsage(s.model, response.Usage)
	gen.Finish()

	logger.Info("Successfully generated pitch", logger.Fields{
		"model":        s.model,
		"title":        pitch.Title,
		"total_tokens": response.Usage.TotalTokens,
		"cost":         observability.FormatCost(observability.CalculateCost(s.model, response.Usage)),
	})

	return &pitch, nil
}

func (s *Service) fail(ctx context.Context, gen *observability.Generation, startTime time.Time, msg string, err error) {
	logger.Error(msg, err, logger.Fields{"model": s.model})

	gen.SetLevel("ERROR")
	gen.Finish()

	s.sentry.RecordGenerationDuration(ctx, time.Since(startTime), false)
	if s.cloudwatch != nil {
		s.cloudwatch.RecordGenerationDuration(time.Since(startTime), false)
	}
}
