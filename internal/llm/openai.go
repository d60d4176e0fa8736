package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"verhalen-machine/internal/upstream"
)

// OpenAIClient calls the OpenAI Chat Completions API.
type OpenAIClient struct {
	model     openai.ChatModel
	maxTokens int64
	client    *openai.Client
}

// NewOpenAIClient builds a client against api.openai.com, or baseURL when set.
// SDK retries are disabled: the gateway makes exactly one upstream attempt.
func NewOpenAIClient(apiKey string, model openai.ChatModel, maxTokens int, baseURL string) *OpenAIClient {
	if model == "" {
		model = openai.ChatModel(DefaultOpenAIModel)
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &OpenAIClient{
		model:     model,
		maxTokens: int64(maxTokens),
		client:    &cli,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               c.model,
		MaxCompletionTokens: openai.Int(c.maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &upstream.Error{Service: "openai", StatusCode: apiErr.StatusCode, Body: []byte(apiErr.RawJSON())}
		}
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the fixed model identifier sent with every request.
func (c *OpenAIClient) Model() string {
	return string(c.model)
}
