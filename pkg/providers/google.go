package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash-exp"

type GeminiClient struct {
	client *genai.Client
}

func Gemini(ctx context.Context, opts ...ProviderOption) (*GeminiClient, error) {
	params := applyOptions(opts, "GEMINI_API_KEY")
	if params.APIKey == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  params.APIKey,
		Backend: genai.BackendGoogleAI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiClient{
		client: client,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, model string, system string, prompt string) (string, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	parts := []*genai.Part{}
	if system != "" {
		parts = append(parts, &genai.Part{Text: system})
	}
	parts = append(parts, &genai.Part{Text: prompt})

	result, err := c.client.Models.GenerateContent(ctx, model, []*genai.Content{{Parts: parts}}, nil)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: empty completion")
	}
	return sb.String(), nil
}
