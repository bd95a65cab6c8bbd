package interview

import (
	"time"

	"mockprep/interview/internal/models"
)

const defaultRoleName = "Custom Interview"

type RoundSnapshot struct {
	RoundType            string `json:"roundType"`
	TotalQuestions       int    `json:"totalQuestions"`
	AnsweredQuestions    int    `json:"answeredQuestions"`
	CompletionPercentage int    `json:"completionPercentage"`
}

// SessionSnapshot is the list view of a session.
type SessionSnapshot struct {
	SessionID            string          `json:"sessionId"`
	RoleName             string          `json:"roleName"`
	Company              string          `json:"company"`
	Mode                 string          `json:"mode"`
	Status               string          `json:"status"`
	Proctored            bool            `json:"proctored"`
	StartedAt            time.Time       `json:"startedAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
	TotalQuestions       int             `json:"totalQuestions"`
	AnsweredQuestions    int             `json:"answeredQuestions"`
	CompletionPercentage int             `json:"completionPercentage"`
	AverageScore         *float64        `json:"averageScore"`
	LatestFeedback       *string         `json:"latestFeedback"`
	Rounds               []RoundSnapshot `json:"rounds"`
}

func Snapshot(session *models.InterviewSession) SessionSnapshot {
	snap := SessionSnapshot{
		SessionID: session.ID,
		RoleName:  session.RoleName,
		Company:   session.Company,
		Mode:      session.Mode,
		Status:    session.Status,
		Proctored: session.Proctored,
		StartedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Rounds:    make([]RoundSnapshot, 0, len(session.Rounds)),
	}
	if snap.RoleName == "" {
		snap.RoleName = defaultRoleName
	}

	totalScore, scored := 0, 0
	var latestAt time.Time
	for _, round := range session.Rounds {
		answered := len(round.Answers)
		snap.Rounds = append(snap.Rounds, RoundSnapshot{
			RoundType:            round.RoundType,
			TotalQuestions:       len(round.Questions),
			AnsweredQuestions:    answered,
			CompletionPercentage: percent(answered, len(round.Questions)),
		})
		snap.TotalQuestions += len(round.Questions)
		snap.AnsweredQuestions += answered

		for _, answer := range round.Answers {
			if answer.Evaluation == nil {
				continue
			}
			totalScore += answer.Evaluation.Score
			scored++

			feedback := answer.Evaluation.FeedbackText
			if feedback == "" {
				continue
			}
			if snap.LatestFeedback == nil || answer.SubmittedAt.After(latestAt) {
				snap.LatestFeedback = &feedback
				latestAt = answer.SubmittedAt
			}
		}
	}

	snap.CompletionPercentage = percent(snap.AnsweredQuestions, snap.TotalQuestions)
	if scored > 0 {
		avg := round1(float64(totalScore) / float64(scored))
		snap.AverageScore = &avg
	}
	return snap
}
