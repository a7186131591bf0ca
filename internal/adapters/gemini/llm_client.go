package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mikey/lead-email-generator/internal/core"
)

const responseMIMEType = "application/json"

// Options are the generation settings applied to every model
type Options struct {
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// NewGenaiClient creates the Gemini API client shared by all model endpoints
func NewGenaiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, eris.New("gemini: API key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, eris.Wrap(err, "failed to create Gemini client")
	}
	return client, nil
}

// GeminiClient is an InferenceClient backed by one Gemini model
type GeminiClient struct {
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGeminiClient creates an endpoint for modelName on a shared genai client
func NewGeminiClient(client *genai.Client, modelName string, opts Options, logger *zap.Logger) *GeminiClient {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(opts.Temperature)
	if opts.TopP > 0 {
		model.SetTopP(opts.TopP)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	model.ResponseMIMEType = responseMIMEType

	return &GeminiClient{
		model:     model,
		modelName: modelName,
		logger:    logger,
	}
}

// Name returns the endpoint name
func (c *GeminiClient) Name() string {
	return "gemini:" + c.modelName
}

// Complete sends the prompt to the model and returns its text
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &core.EndpointError{Endpoint: c.Name(), StatusCode: statusCode(err), Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &core.EndpointError{Endpoint: c.Name(), StatusCode: http.StatusOK, Err: eris.New("empty response from Gemini")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	c.logger.Debug("Gemini response received",
		zap.String("model", c.modelName),
		zap.Int("length", sb.Len()))

	return sb.String(), nil
}

// statusCode extracts the HTTP status of a failed call, or 0 when there is none
func statusCode(err error) int {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return apiErr.HTTPCode()
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}
