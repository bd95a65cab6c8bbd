package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/models"
)

const providerName = "gemini"

const systemInstruction = "You assist with mock job interviews. Reply with exactly one JSON document and no prose around it."

// Client generates interview content through the Gemini API.
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}
	return &Client{client: client, config: config}, nil
}

func (c *Client) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(c.config.Temperature),
		MaxOutputTokens:   c.config.MaxOutputTokens,
	}
}

// GenerateContent asks the model for a JSON document answering prompt.
func (c *Client) GenerateContent(ctx context.Context, prompt string, requestID string) (*models.GenerationResponse, error) {
	started := time.Now()

	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(prompt), c.generationConfig())
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, invalidResponse("No candidates returned")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, invalidResponse("Empty response generated")
	}

	meta := models.GenerationMetadata{
		ProcessingTime: int(time.Since(started).Milliseconds()),
		Provider:       providerName,
		Model:          c.config.Model,
	}
	if usage := result.UsageMetadata; usage != nil {
		meta.TokensUsed = int(usage.TotalTokenCount)
	}
	return &models.GenerationResponse{Content: text, RequestID: requestID, Metadata: meta}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func invalidResponse(message string) error {
	return &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidResponse, Message: message}
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llm.ErrorFromStatus(providerName, apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return llm.ErrorFromStatus(providerName, apiErrPtr.Code, err)
	}
	return llm.ErrorFromStatus(providerName, 0, err)
}
