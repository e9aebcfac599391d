package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("openai is the default", func(t *testing.T) {
		p, err := New(context.Background(), "", WithAPIKey("test-key"))
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, p)
	})

	t.Run("gemini needs a key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		_, err := New(context.Background(), "gemini")
		assert.ErrorContains(t, err, "GEMINI_API_KEY")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(context.Background(), "carrier-pigeon")
		assert.Error(t, err)
	})
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", DefaultModel("openai"))
	assert.Equal(t, "gemini-2.0-flash-exp", DefaultModel("Gemini"))
}

func TestApplyOptionsFallsBackToEnv(t *testing.T) {
	t.Setenv("SOME_PROVIDER_KEY", "from-env")
	assert.Equal(t, "from-env", applyOptions(nil, "SOME_PROVIDER_KEY").APIKey)
	assert.Equal(t, "explicit", applyOptions([]ProviderOption{WithAPIKey("explicit")}, "SOME_PROVIDER_KEY").APIKey)
}
