// Package interviewer turns an LLM provider into the question and evaluation
// providers used by the interview controller.
package interviewer

import (
	"context"
	"encoding/json"
	"fmt"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/prompts"
	"mockprep/interview/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// client is the shared prompt -> provider -> validated JSON pipeline.
type client struct {
	provider llm.Provider
	prompts  *prompts.PromptManager
	logger   *zap.Logger
}

func newClient(provider llm.Provider, pm *prompts.PromptManager, logger *zap.Logger) client {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return client{provider: provider, prompts: pm, logger: logger}
}

// generate renders the prompt, calls the provider and decodes the validated
// response into out.
func (c client) generate(ctx context.Context, template, variant string, data interface{}, schema *llm.Schema, out interface{}) error {
	prompt, err := c.prompts.BuildPrompt(template, variant, data)
	if err != nil {
		return fmt.Errorf("build %s prompt: %w", template, err)
	}

	requestID := uuid.NewString()
	resp, err := c.provider.GenerateContent(ctx, prompt, requestID)
	if err != nil {
		return err
	}

	c.logger.Debug("provider response received",
		zap.String("request_id", requestID),
		zap.String("provider", resp.Metadata.Provider),
		zap.String("model", resp.Metadata.Model),
		zap.Int("processing_time_ms", resp.Metadata.ProcessingTime),
		zap.Int("attempts", resp.Metadata.Attempts))

	raw := []byte(utils.StripFences(resp.Content))
	providerName := c.provider.GetProviderName()
	if err := llm.ValidateJSON(providerName, schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidResponse,
			Message:  "Response could not be decoded",
			Err:      err,
		}
	}
	return nil
}
