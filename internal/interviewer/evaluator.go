package interviewer

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/prompts"

	"go.uber.org/zap"
)

const (
	evaluationTemplate = "evaluation"
	noFeedback         = "No feedback provided"

	maxScore = 10
	// test answers never score above this
	testAnswerCap = 2
	// answers shorter than this many characters count as test answers
	minSubstantiveLength = 20
)

// words that make up throwaway answers like "just testing" or "test answer"
var testVocabulary = map[string]bool{
	"test": true, "tests": true, "testing": true, "tested": true,
	"just": true, "answer": true, "purpose": true, "purposes": true,
	"for": true, "only": true, "this": true, "is": true, "a": true,
	"dummy": true, "sample": true,
}

type evaluationPromptData struct {
	QuestionText     string
	ExpectedKeywords []string
	AnswerText       string
}

type generatedEvaluation struct {
	Score           float64  `json:"score"`
	FeedbackText    string   `json:"feedbackText"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	ImprovementTips []string `json:"improvementTips"`
	ScoreBreakdown  *struct {
		Relevance    float64 `json:"relevance"`
		Accuracy     float64 `json:"accuracy"`
		Clarity      float64 `json:"clarity"`
		Completeness float64 `json:"completeness"`
	} `json:"scoreBreakdown"`
}

// Evaluator asks the provider to score one answer.
type Evaluator struct {
	client
}

func NewEvaluator(provider llm.Provider, pm *prompts.PromptManager, logger *zap.Logger) *Evaluator {
	return &Evaluator{client: newClient(provider, pm, logger)}
}

// EvaluateAnswer implements interview.EvaluationProvider.
func (e *Evaluator) EvaluateAnswer(ctx context.Context, question models.InterviewQuestion, answerText string) (*models.Evaluation, error) {
	data := evaluationPromptData{
		QuestionText:     question.Text,
		ExpectedKeywords: question.ExpectedKeywords,
		AnswerText:       answerText,
	}

	var out generatedEvaluation
	if err := e.generate(ctx, evaluationTemplate, "default", data, evaluationSchema, &out); err != nil {
		return nil, err
	}

	score := clampScore(int(out.Score))
	if isTestAnswer(answerText) && score > testAnswerCap {
		score = testAnswerCap
	}

	evaluation := &models.Evaluation{
		Score:           score,
		FeedbackText:    strings.TrimSpace(out.FeedbackText),
		Strengths:       nonNil(out.Strengths),
		Weaknesses:      nonNil(out.Weaknesses),
		ImprovementTips: nonNil(out.ImprovementTips),
	}
	if evaluation.FeedbackText == "" {
		evaluation.FeedbackText = noFeedback
	}
	if b := out.ScoreBreakdown; b != nil {
		evaluation.ScoreBreakdown = &models.ScoreBreakdown{
			Relevance:    int(b.Relevance),
			Accuracy:     int(b.Accuracy),
			Clarity:      int(b.Clarity),
			Completeness: int(b.Completeness),
		}
	}
	return evaluation, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// isTestAnswer reports whether an answer is too short to carry substance or
// is made only of test phrases.
func isTestAnswer(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if utf8.RuneCountInString(answer) < minSubstantiveLength {
		return true
	}

	words := strings.FieldsFunc(answer, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !testVocabulary[w] {
			return false
		}
	}
	return true
}

func nonNil(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
