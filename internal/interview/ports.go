package interview

import (
	"context"
	"time"

	"mockprep/interview/internal/models"
)

// QuestionContext is everything a question provider may use to tailor a round.
type QuestionContext struct {
	RoleProfile   *models.RoleProfile
	Resume        *models.Resume
	Candidate     *models.Candidate
	QuestionCount int
	Difficulty    string
}

// QuestionProvider generates the questions of one round. It may return fewer
// questions than requested.
type QuestionProvider interface {
	GenerateQuestions(ctx context.Context, roundType string, qc QuestionContext) ([]models.InterviewQuestion, error)
}

// EvaluationProvider scores one answer.
type EvaluationProvider interface {
	EvaluateAnswer(ctx context.Context, question models.InterviewQuestion, answerText string) (*models.Evaluation, error)
}

// SessionStore persists sessions. Implementations return the store package
// sentinels for missing sessions, duplicate answers and inactive sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.InterviewSession) error
	GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	InsertAnswer(ctx context.Context, answer *models.InterviewAnswer) error
	MarkCompleted(ctx context.Context, sessionID string, at time.Time) (bool, error)
	ListSessionsByOwner(ctx context.Context, ownerID string, limit int) ([]models.InterviewSession, error)
	CountSessions(ctx context.Context) (*models.AdminStatsResponse, error)
}

// ProfileStore reads the role, resume and candidate context of a session.
type ProfileStore interface {
	GetRoleProfile(ctx context.Context, id string) (*models.RoleProfile, error)
	GetResume(ctx context.Context, id string) (*models.Resume, error)
	LatestResume(ctx context.Context, ownerID string) (*models.Resume, error)
	GetCandidate(ctx context.Context, ownerID string) (*models.Candidate, error)
}

// StructureSource supplies the default round sizes for an experience level.
type StructureSource interface {
	DefaultStructure(difficulty string) models.RoundStructures
}

// Locker serializes work on one session across requests and replicas.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// EventPublisher announces finished sessions to other services.
type EventPublisher interface {
	PublishCompleted(ctx context.Context, event models.InterviewCompletedEvent) error
}

// Recorder receives domain counters. A nil Recorder is allowed.
type Recorder interface {
	SessionCreated(mode string)
	AnswerSubmitted(roundType string, placeholder bool)
	ProviderFallback(operation string)
	SessionCompleted(partial bool)
}
