package pitchgen

import (
	"context"
	"errors"
	"testing"

	"github.com/pitchwheel/pitch-api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	response *llm.GenerationResponse
	err      error

	lastRequest *llm.GenerationRequest
}

func (p *fakeProvider) Generate(_ context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	p.lastRequest = req
	if p.err != nil {
		return nil, p.err
	}
	return p.response, nil
}

func (p *fakeProvider) Name() string { return "fake" }

type fakeSource struct {
	provider llm.Provider
	err      error
}

func (s *fakeSource) GetProvider(context.Context, string, string) (llm.Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.provider, nil
}

func newService(p *fakeProvider) *Service {
	return NewWithProviders(&fakeSource{provider: p}, "gpt-4o-mini")
}

func TestGeneratePitchSuccess(t *testing.T) {
	provider := &fakeProvider{
		response: &llm.GenerationResponse{
			RawOutput: `{"title":"Red Dust Noir","tagline":"On Mars, every shadow lies.","pitch":"A detective hunts a killer through a pastel Mars colony."}`,
			Usage:     llm.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
		},
	}
	svc := newService(provider)

	pitch, err := svc.GeneratePitch(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Red Dust Noir", pitch.Title)
	assert.Equal(t, "On Mars, every shadow lies.", pitch.Tagline)
	assert.NotEmpty(t, pitch.Pitch)
}

func TestGeneratePitchSendsPersonaAndSchema(t *testing.T) {
	provider := &fakeProvider{
		response: &llm.GenerationResponse{
			RawOutput: `{"title":"T","tagline":"G","pitch":"P"}`,
		},
	}
	svc := newService(provider)

	_, err := svc.GeneratePitch(context.Background(), "the prompt")
	require.NoError(t, err)

	req := provider.lastRequest
	require.NotNil(t, req)
	assert.Contains(t, req.SystemPrompt, "Hollywood scriptwriter")
	require.NotNil(t, req.OutputSchema)
	assert.Equal(t, llm.MoviePitchSchemaName, req.OutputSchema.Name)
	require.Len(t, req.InputArray, 1)
	assert.Equal(t, "the prompt", req.InputArray[0]["content"])
}

func TestGeneratePitchMapsProviderError(t *testing.T) {
	svc := newService(&fakeProvider{err: errors.New("quota exceeded: secret internal detail")})

	pitch, err := svc.GeneratePitch(context.Background(), "prompt")
	assert.Nil(t, pitch)
	require.ErrorIs(t, err, ErrGenerationFailed)
	// Provider detail must not leak through the returned error.
	assert.NotContains(t, err.Error(), "secret internal detail")
}

func TestGeneratePitchMapsProviderSourceError(t *testing.T) {
	svc := NewWithProviders(&fakeSource{err: errors.New("no key")}, "gpt-4o-mini")

	_, err := svc.GeneratePitch(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGeneratePitchMapsMalformedOutput(t *testing.T) {
	svc := newService(&fakeProvider{
		response: &llm.GenerationResponse{RawOutput: "not json at all"},
	})

	pitch, err := svc.GeneratePitch(context.Background(), "prompt")
	assert.Nil(t, pitch)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGeneratePitchRejectsPartialPitch(t *testing.T) {
	for name, raw := range map[string]string{
		"missing title":      `{"tagline":"G","pitch":"P"}`,
		"blank tagline":      `{"title":"T","tagline":"  ","pitch":"P"}`,
		"missing pitch body": `{"title":"T","tagline":"G"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := newService(&fakeProvider{
				response: &llm.GenerationResponse{RawOutput: raw},
			})

			pitch, err := svc.GeneratePitch(context.Background(), "prompt")
			assert.Nil(t, pitch, "no partial pitch may ever be returned")
			assert.ErrorIs(t, err, ErrGenerationFailed)
		})
	}
}
