package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProviderByModelPrefix(t *testing.T) {
	factory := NewProviderFactory("sk-test", "")

	p, err := factory.GetProvider(context.Background(), "gpt-4o-mini", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestGetProviderExplicitName(t *testing.T) {
	factory := NewProviderFactory("sk-test", "")

	p, err := factory.GetProvider(context.Background(), "", "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestGetProviderUnknownName(t *testing.T) {
	factory := NewProviderFactory("sk-test", "gm-test")

	_, err := factory.GetProvider(context.Background(), "", "anthropic")
	assert.Error(t, err)
}

func TestGetProviderMissingKeys(t *testing.T) {
	factory := NewProviderFactory("", "")

	_, err := factory.GetProvider(context.Background(), "gpt-4o-mini", "")
	assert.Error(t, err)

	_, err = factory.GetProvider(context.Background(), "gemini-2.5-flash", "")
	assert.Error(t, err)
}

func TestGetProviderDefaultsToOpenAI(t *testing.T) {
	factory := NewProviderFactory("sk-test", "")

	p, err := factory.GetProvider(context.Background(), "some-unknown-model", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}
