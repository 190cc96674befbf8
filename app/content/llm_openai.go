package content

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var _ LLMClient = (*OpenAIClient)(nil)

// OpenAIClient implements LLMClient with chat completions of an OpenAI compatible API.
type OpenAIClient struct {
	model       string
	temperature float64
	maxTokens   int
	opts        []option.RequestOption
}

func NewOpenAIClient(settings LLMSettings) (*OpenAIClient, error) {
	if settings.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if settings.Model == "" {
		return nil, errors.New("llm model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithMaxRetries(settings.MaxRetries),
	}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	if settings.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(settings.Timeout))
	}

	return &OpenAIClient{
		model:       settings.Model,
		temperature: settings.Temperature,
		maxTokens:   settings.MaxTokens,
		opts:        opts,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	client := openai.NewClient(o.opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(o.temperature),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("openai: empty choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Completion{}, errors.New("openai: empty message content")
	}

	return Completion{
		Text:  text,
		Model: resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
