package providers

import (
	"context"
	"errors"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1/"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type OpenAIClient struct {
	client *openai.Client
}

func OpenAi(ctx context.Context, opts ...ProviderOption) *OpenAIClient {
	params := applyOptions(opts, "OPENAI_API_KEY")
	if params.BaseURL == "" {
		params.BaseURL = os.Getenv("OPENAI_API_BASE_URL")
		if params.BaseURL == "" {
			params.BaseURL = defaultOpenAIBaseURL
		}
	}

	requestOpts := []option.RequestOption{option.WithBaseURL(params.BaseURL)}
	if params.APIKey != "" {
		requestOpts = append(requestOpts, option.WithAPIKey(params.APIKey))
	}
	return &OpenAIClient{
		client: openai.NewClient(requestOpts...),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, model string, system string, prompt string) (string, error) {
	if model == "" {
		model = defaultOpenAIModel
	}
	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(model),
	})
	if err != nil {
		return "", err
	}
	if len(chatCompletion.Choices) == 0 {
		return "", errors.New("openai: empty completion")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}
