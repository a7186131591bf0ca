package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

const systemPrompt = "You identify company email domains and address formats. Respond only with JSON."

// Options configure the chat completion request
type Options struct {
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIClient is an InferenceClient backed by an OpenAI compatible chat model
type OpenAIClient struct {
	client    *openai.Client
	modelName string
	opts      Options
	logger    *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client. BaseURL selects a compatible server.
func NewOpenAIClient(modelName string, opts Options, logger *zap.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
		opts:      opts,
		logger:    logger,
	}
}

// Name returns the endpoint name
func (c *OpenAIClient) Name() string {
	return "openai:" + c.modelName
}

// Complete sends the prompt as a chat completion in JSON mode
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		TopP:        c.opts.TopP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &core.EndpointError{Endpoint: c.Name(), StatusCode: statusCode(err), Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &core.EndpointError{Endpoint: c.Name(), StatusCode: http.StatusOK, Err: eris.New("empty response from OpenAI")}
	}

	c.logger.Debug("OpenAI response received",
		zap.String("model", c.modelName),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
