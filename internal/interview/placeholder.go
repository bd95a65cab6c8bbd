package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/models"
)

const placeholderFeedback = "Evaluation temporarily unavailable. Your answer has been saved."

var providerDisplayNames = map[string]string{
	"gemini":    "Gemini",
	"openai":    "OpenAI",
	"anthropic": "Anthropic",
}

// placeholderQuestion stands in for a round whose generation failed. Its text
// tells the candidate what went wrong.
func placeholderQuestion(roundType, difficulty string, timeMinutes int, message string) models.InterviewQuestion {
	return models.InterviewQuestion{
		Position:         1,
		QuestionID:       questionID(roundType, 1),
		Text:             message,
		Difficulty:       difficulty,
		ExpectedKeywords: []string{},
		TimeMinutes:      timeMinutes,
		Placeholder:      true,
	}
}

func placeholderEvaluation() *models.Evaluation {
	return &models.Evaluation{
		Score:           0,
		FeedbackText:    placeholderFeedback,
		Strengths:       []string{},
		Weaknesses:      []string{},
		ImprovementTips: []string{},
		Placeholder:     true,
	}
}

func generationFailureMessage(providerName string, err error) string {
	const prefix = "Error generating questions. "

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Code {
		case llm.ErrCodeAPIKey:
			return prefix + displayName(providerName) + " API key is not configured. Please check your .env file."
		case llm.ErrCodeTimeout:
			return prefix + "Request timed out. Please try again."
		case llm.ErrCodeRateLimit:
			return prefix + "API quota exceeded. Please try again later."
		}
		return fmt.Sprintf("%sPlease try again later. (%s)", prefix, provErr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return prefix + "Request timed out. Please try again."
	}
	return fmt.Sprintf("%sPlease try again later. (%s)", prefix, err.Error())
}

func displayName(providerName string) string {
	if name, ok := providerDisplayNames[providerName]; ok {
		return name
	}
	if providerName == "" {
		return "AI provider"
	}
	return strings.ToUpper(providerName[:1]) + providerName[1:]
}
