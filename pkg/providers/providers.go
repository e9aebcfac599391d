package providers

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider completes a prompt with a hosted language model.
type Provider interface {
	Complete(ctx context.Context, model string, system string, prompt string) (string, error)
}

type ProviderParams struct {
	BaseURL string
	APIKey  string
}

type ProviderOption func(*ProviderParams)

func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		p.BaseURL = baseURL
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		p.APIKey = apiKey
	}
}

// New returns the provider registered under name ("openai" or "gemini").
func New(ctx context.Context, name string, opts ...ProviderOption) (Provider, error) {
	switch strings.ToLower(name) {
	case "", "openai":
		return OpenAi(ctx, opts...), nil
	case "gemini", "google":
		return Gemini(ctx, opts...)
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}

// DefaultModel is the model used for name when none is configured.
func DefaultModel(name string) string {
	switch strings.ToLower(name) {
	case "gemini", "google":
		return defaultGeminiModel
	}
	return defaultOpenAIModel
}

func applyOptions(opts []ProviderOption, keyEnv string) *ProviderParams {
	params := &ProviderParams{}
	for _, opt := range opts {
		opt(params)
	}
	if params.APIKey == "" {
		params.APIKey = os.Getenv(keyEnv)
	}
	return params
}
