package interview

import (
	"fmt"
	"math"
	"time"

	"mockprep/interview/internal/models"
)

const (
	DefaultHiringThreshold = 7.0
	maxQualitativeItems    = 10
)

// SummaryOptions tunes aggregation.
type SummaryOptions struct {
	HiringThreshold    float64
	DefaultTimeMinutes int
	// AsOf replaces the session's updatedAt as the completion instant when
	// set, for summaries of sessions that are still active.
	AsOf time.Time
}

// RoleRef identifies the role a session was run for.
type RoleRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type RoundPerformance struct {
	RoundType                     string  `json:"roundType"`
	QuestionsAnswered             int     `json:"questionsAnswered"`
	TotalQuestions                int     `json:"totalQuestions"`
	AverageScore                  float64 `json:"averageScore"`
	CompletionPercentage          int     `json:"completionPercentage"`
	TotalTimeSpentSeconds         int     `json:"totalTimeSpentSeconds"`
	AverageTimePerQuestionSeconds int     `json:"averageTimePerQuestionSeconds"`
}

type FeedbackEntry struct {
	RoundType  string `json:"roundType"`
	QuestionID string `json:"questionId"`
	Feedback   string `json:"feedback"`
	Score      int    `json:"score"`
}

// Summary is the derived performance report of a session. Every list is
// non-nil so renderers never need nil checks.
type Summary struct {
	SessionID   string  `json:"sessionId"`
	Mode        string  `json:"mode"`
	Status      string  `json:"status"`
	RoleProfile RoleRef `json:"roleProfile"`

	OverallScore         float64 `json:"overallScore"`
	TotalQuestions       int     `json:"totalQuestions"`
	QuestionsAnswered    int     `json:"questionsAnswered"`
	UnansweredQuestions  int     `json:"unansweredQuestions"`
	CompletionPercentage int     `json:"completionPercentage"`
	IsComplete           bool    `json:"isComplete"`

	TotalTimeSpentSeconds         int `json:"totalTimeSpentSeconds"`
	AverageTimePerQuestionSeconds int `json:"averageTimePerQuestionSeconds"`
	TotalInterviewTimeSeconds     int `json:"totalInterviewTimeSeconds"`
	EstimatedTimeSeconds          int `json:"estimatedTimeSeconds"`
	TimeEfficiency                int `json:"timeEfficiency"`

	HiringThreshold      float64 `json:"hiringThreshold"`
	IsHireable           bool    `json:"isHireable"`
	ScoreGap             float64 `json:"scoreGap"`
	HiringRecommendation string  `json:"hiringRecommendation"`

	OverallStrengths       []string           `json:"overallStrengths"`
	OverallWeaknesses      []string           `json:"overallWeaknesses"`
	OverallImprovementTips []string           `json:"overallImprovementTips"`
	DetailedFeedback       []FeedbackEntry    `json:"detailedFeedback"`
	RoundWisePerformance   []RoundPerformance `json:"roundWisePerformance"`

	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// Aggregate computes the summary of a session. It reads nothing but its
// arguments, so equal inputs always give equal summaries.
func Aggregate(session *models.InterviewSession, opts SummaryOptions) Summary {
	threshold := opts.HiringThreshold
	if threshold <= 0 {
		threshold = DefaultHiringThreshold
	}
	defaultMinutes := opts.DefaultTimeMinutes
	if defaultMinutes <= 0 {
		defaultMinutes = models.DefaultTimeMinutes
	}

	summary := Summary{
		SessionID: session.ID,
		Mode:      session.Mode,
		Status:    session.Status,
		RoleProfile: RoleRef{
			ID:      session.RoleProfileID,
			Name:    session.RoleName,
			Company: session.Company,
		},
		HiringThreshold:      threshold,
		RoundWisePerformance: make([]RoundPerformance, 0, len(session.Rounds)),
		DetailedFeedback:     []FeedbackEntry{},
		StartedAt:            session.CreatedAt,
	}

	strengths := newOrderedSet()
	weaknesses := newOrderedSet()
	tips := newOrderedSet()

	totalScore, evaluatedCount := 0, 0
	estimatedSeconds := 0

	for _, round := range session.Rounds {
		perf := RoundPerformance{
			RoundType:      round.RoundType,
			TotalQuestions: len(round.Questions),
		}
		roundScore, roundEvaluated := 0, 0

		for _, question := range round.Questions {
			minutes := question.TimeMinutes
			if minutes <= 0 {
				minutes = defaultMinutes
			}
			estimatedSeconds += minutes * 60

			answer := round.AnswerFor(question.QuestionID)
			if answer == nil {
				continue
			}
			perf.QuestionsAnswered++
			perf.TotalTimeSpentSeconds += answer.TimeSpentSeconds

			eval := answer.Evaluation
			if eval == nil {
				continue
			}
			roundScore += eval.Score
			roundEvaluated++
			strengths.add(eval.Strengths...)
			weaknesses.add(eval.Weaknesses...)
			tips.add(eval.ImprovementTips...)
			summary.DetailedFeedback = append(summary.DetailedFeedback, FeedbackEntry{
				RoundType:  round.RoundType,
				QuestionID: question.QuestionID,
				Feedback:   eval.FeedbackText,
				Score:      eval.Score,
			})
		}

		if roundEvaluated > 0 {
			perf.AverageScore = round1(float64(roundScore) / float64(roundEvaluated))
		}
		perf.CompletionPercentage = percent(perf.QuestionsAnswered, perf.TotalQuestions)
		if perf.QuestionsAnswered > 0 {
			perf.AverageTimePerQuestionSeconds = roundInt(float64(perf.TotalTimeSpentSeconds) / float64(perf.QuestionsAnswered))
		}

		summary.TotalQuestions += perf.TotalQuestions
		summary.QuestionsAnswered += perf.QuestionsAnswered
		summary.TotalTimeSpentSeconds += perf.TotalTimeSpentSeconds
		totalScore += roundScore
		evaluatedCount += roundEvaluated
		summary.RoundWisePerformance = append(summary.RoundWisePerformance, perf)
	}

	if evaluatedCount > 0 {
		summary.OverallScore = round1(float64(totalScore) / float64(evaluatedCount))
	}
	summary.UnansweredQuestions = summary.TotalQuestions - summary.QuestionsAnswered
	summary.CompletionPercentage = percent(summary.QuestionsAnswered, summary.TotalQuestions)
	summary.IsComplete = summary.TotalQuestions > 0 && summary.QuestionsAnswered == summary.TotalQuestions

	if summary.QuestionsAnswered > 0 {
		summary.AverageTimePerQuestionSeconds = roundInt(float64(summary.TotalTimeSpentSeconds) / float64(summary.QuestionsAnswered))
	}
	summary.EstimatedTimeSeconds = estimatedSeconds
	summary.TimeEfficiency = 100
	if estimatedSeconds > 0 {
		summary.TimeEfficiency = percent(summary.TotalTimeSpentSeconds, estimatedSeconds)
	}

	summary.CompletedAt = completionInstant(session, opts.AsOf)
	if elapsed := summary.CompletedAt.Sub(session.CreatedAt); elapsed > 0 {
		summary.TotalInterviewTimeSeconds = int(elapsed / time.Second)
	}

	summary.IsHireable = summary.OverallScore >= threshold
	summary.ScoreGap = round1(math.Max(0, threshold-summary.OverallScore))
	summary.HiringRecommendation = hiringRecommendation(summary.IsHireable, summary.ScoreGap)

	summary.OverallStrengths = strengths.items
	summary.OverallWeaknesses = weaknesses.items
	summary.OverallImprovementTips = tips.items

	return summary
}

func completionInstant(session *models.InterviewSession, asOf time.Time) time.Time {
	switch {
	case !asOf.IsZero():
		return asOf
	case !session.UpdatedAt.IsZero():
		return session.UpdatedAt
	default:
		return session.CreatedAt
	}
}

func hiringRecommendation(hireable bool, gap float64) string {
	if hireable {
		return "You meet the hiring threshold! Continue improving to strengthen your profile."
	}
	return fmt.Sprintf("You need to improve your score by %.1f points to meet the hiring threshold.", gap)
}

// orderedSet keeps the first occurrence of each string, up to the cap.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if len(s.items) >= maxQualitativeItems {
			return
		}
		if s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return roundInt(100 * float64(part) / float64(total))
}
