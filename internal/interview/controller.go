package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/lock"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/store"
	"mockprep/interview/internal/utils"
)

const (
	msgSummaryRetrieved  = "Interview summary retrieved"
	msgCompleted         = "Interview completed successfully"
	msgCompletedPartial  = "Interview completed with partial answers"
	defaultListLimit     = 20
	maxListLimit         = 50
	sessionLockKeyPrefix = "interview:session:"
	// bounds writes that must land after the request context has expired
	persistTimeout = 10 * time.Second
)

// Dependencies are the collaborators of a Controller. Locker, Events and
// Metrics are optional.
type Dependencies struct {
	Sessions   SessionStore
	Profiles   ProfileStore
	Questions  QuestionProvider
	Evaluator  EvaluationProvider
	Structures StructureSource
	Locker     Locker
	Events     EventPublisher
	Metrics    Recorder
	Logger     *zap.Logger
}

type Options struct {
	HiringThreshold    float64
	DefaultTimeMinutes int
	// SummaryFinalizes makes a summary request on an active session complete
	// it first. When false, summaries of active sessions are read-only.
	SummaryFinalizes bool
	// ProviderName is shown in placeholder questions.
	ProviderName string
}

// Controller drives the session lifecycle.
type Controller struct {
	sessions   SessionStore
	profiles   ProfileStore
	questions  QuestionProvider
	evaluator  EvaluationProvider
	structures StructureSource
	locker     Locker
	events     EventPublisher
	metrics    Recorder
	logger     *zap.Logger
	opts       Options

	now   func() time.Time
	newID func() string
}

func NewController(deps Dependencies, opts Options) *Controller {
	if opts.HiringThreshold <= 0 {
		opts.HiringThreshold = DefaultHiringThreshold
	}
	if opts.DefaultTimeMinutes <= 0 {
		opts.DefaultTimeMinutes = models.DefaultTimeMinutes
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}

	return &Controller{
		sessions:   deps.Sessions,
		profiles:   deps.Profiles,
		questions:  deps.Questions,
		evaluator:  deps.Evaluator,
		structures: deps.Structures,
		locker:     locker,
		events:     deps.Events,
		metrics:    deps.Metrics,
		logger:     logger,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.New().String() },
	}
}

type CreateParams struct {
	OwnerID        string
	Mode           string
	RoleProfileID  string
	ResumeID       string
	EnabledRounds  []string
	QuestionCounts map[string]int
	Difficulty     string
	Proctored      bool
}

type RoundMetadata struct {
	RoundIndex    int    `json:"roundIndex"`
	RoundType     string `json:"roundType"`
	QuestionCount int    `json:"questionCount"`
	Difficulty    string `json:"difficulty"`
	Completed     bool   `json:"completed"`
}

type CreateResult struct {
	SessionID      string          `json:"sessionId"`
	Mode           string          `json:"mode"`
	RoleProfile    RoleRef         `json:"roleProfile"`
	RoundsMetadata []RoundMetadata `json:"roundsMetadata"`
	Status         string          `json:"status"`
	Difficulty     string          `json:"difficulty"`
	Proctored      bool            `json:"proctored"`
}

// Create plans the rounds of a new session, generates their questions and
// stores it as active.
func (c *Controller) Create(ctx context.Context, p CreateParams) (*CreateResult, error) {
	mode := utils.NormalizeKey(p.Mode)
	if !models.ValidModes[mode] {
		return nil, validationError("invalid_mode", "Invalid interview mode. Must be one of: "+strings.Join(models.ValidModesList(), ", "))
	}
	p.Mode = mode
	if strings.TrimSpace(p.RoleProfileID) == "" {
		return nil, validationError("missing_role_profile", "Role profile is required")
	}

	role, err := c.profiles.GetRoleProfile(ctx, p.RoleProfileID)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			return nil, notFoundError("role_not_found", "Role profile not found")
		}
		return nil, fmt.Errorf("load role profile: %w", err)
	}

	var resume *models.Resume
	if mode == models.ModeResume || mode == models.ModeMixed {
		resume, err = c.resolveResume(ctx, p.OwnerID, p.ResumeID)
		if err != nil {
			return nil, err
		}
	}

	candidate, err := c.profiles.GetCandidate(ctx, p.OwnerID)
	if err != nil {
		if !errors.Is(err, store.ErrCandidateNotFound) {
			c.logger.Warn("candidate profile unavailable, continuing without it",
				zap.String("owner_id", p.OwnerID), zap.Error(err))
		}
		candidate = nil
	}

	difficulty, planned := planRounds(role, p, c.structures)
	if len(planned) == 0 {
		return nil, validationError("no_rounds", "At least one interview round must be enabled")
	}

	base := QuestionContext{RoleProfile: role, Resume: resume, Candidate: candidate}
	rounds := c.generateRounds(ctx, base, planned)

	now := c.now()
	session := &models.InterviewSession{
		ID:            c.newID(),
		OwnerID:       p.OwnerID,
		RoleProfileID: role.ID,
		RoleName:      role.RoleName,
		Company:       role.Company,
		Mode:          mode,
		Difficulty:    difficulty,
		Status:        models.StatusActive,
		Proctored:     p.Proctored,
		Rounds:        rounds,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if resume != nil {
		session.ResumeID = resume.ID
	}

	persistCtx, cancel := persistContext(ctx)
	defer cancel()
	if err := c.sessions.CreateSession(persistCtx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if c.metrics != nil {
		c.metrics.SessionCreated(mode)
	}
	c.logger.Info("interview session created",
		zap.String("session_id", session.ID),
		zap.String("mode", mode),
		zap.String("difficulty", difficulty),
		zap.Int("rounds", len(rounds)),
		zap.Int("questions", session.TotalQuestions()))

	result := &CreateResult{
		SessionID:      session.ID,
		Mode:           mode,
		RoleProfile:    RoleRef{ID: role.ID, Name: role.RoleName, Company: role.Company},
		RoundsMetadata: make([]RoundMetadata, len(rounds)),
		Status:         session.Status,
		Difficulty:     difficulty,
		Proctored:      session.Proctored,
	}
	for i, round := range rounds {
		result.RoundsMetadata[i] = RoundMetadata{
			RoundIndex:    round.Position,
			RoundType:     round.RoundType,
			QuestionCount: len(round.Questions),
			Difficulty:    round.Difficulty,
			Completed:     false,
		}
	}
	return result, nil
}

func (c *Controller) resolveResume(ctx context.Context, ownerID, resumeID string) (*models.Resume, error) {
	if resumeID != "" {
		resume, err := c.profiles.GetResume(ctx, resumeID)
		if err != nil {
			if errors.Is(err, store.ErrResumeNotFound) {
				return nil, validationError("resume_required", "Resume is required for this interview mode")
			}
			return nil, fmt.Errorf("load resume: %w", err)
		}
		if resume.OwnerID != ownerID {
			return nil, forbiddenError("You do not have access to this resume")
		}
		return resume, nil
	}

	resume, err := c.profiles.LatestResume(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrResumeNotFound) {
			return nil, validationError("resume_required", "Resume is required for this interview mode")
		}
		return nil, fmt.Errorf("load latest resume: %w", err)
	}
	return resume, nil
}

// generateRounds asks the provider for every round concurrently. A failed
// round gets a single placeholder question and never affects the others.
func (c *Controller) generateRounds(ctx context.Context, base QuestionContext, planned []plannedRound) []models.InterviewRound {
	rounds := make([]models.InterviewRound, len(planned))

	var wg sync.WaitGroup
	for i, plan := range planned {
		wg.Add(1)
		go func(i int, plan plannedRound) {
			defer wg.Done()
			rounds[i] = c.buildRound(ctx, i, plan, base)
		}(i, plan)
	}
	wg.Wait()

	return rounds
}

func (c *Controller) buildRound(ctx context.Context, position int, plan plannedRound, base QuestionContext) models.InterviewRound {
	qc := base
	qc.QuestionCount = plan.QuestionCount
	qc.Difficulty = plan.Difficulty

	questions, err := c.questions.GenerateQuestions(ctx, plan.RoundType, qc)
	if err == nil {
		questions = c.normalizeQuestions(plan, questions)
		if len(questions) == 0 {
			err = &llm.ProviderError{
				Provider: c.opts.ProviderName,
				Code:     llm.ErrCodeInvalidResponse,
				Message:  "No questions generated",
			}
		}
	}
	if err != nil {
		c.logger.Warn("question generation failed, using placeholder",
			zap.String("round_type", plan.RoundType), zap.Error(err))
		if c.metrics != nil {
			c.metrics.ProviderFallback("generate_questions")
		}
		questions = []models.InterviewQuestion{
			placeholderQuestion(plan.RoundType, plan.Difficulty, c.opts.DefaultTimeMinutes,
				generationFailureMessage(c.opts.ProviderName, err)),
		}
	}

	return models.InterviewRound{
		RoundType:  plan.RoundType,
		Position:   position,
		Difficulty: plan.Difficulty,
		Questions:  questions,
		Answers:    []models.InterviewAnswer{},
	}
}

// normalizeQuestions drops blank questions, truncates to the planned count and
// renumbers ids so they always follow {roundType}-q{n}.
func (c *Controller) normalizeQuestions(plan plannedRound, questions []models.InterviewQuestion) []models.InterviewQuestion {
	out := make([]models.InterviewQuestion, 0, plan.QuestionCount)
	for _, q := range questions {
		if len(out) == plan.QuestionCount {
			break
		}
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			continue
		}
		n := len(out) + 1
		q.ID = 0
		q.Position = n
		q.QuestionID = questionID(plan.RoundType, n)
		if q.Difficulty == "" {
			q.Difficulty = plan.Difficulty
		} else {
			q.Difficulty = NormalizeDifficulty(q.Difficulty, plan.Difficulty)
		}
		if q.TimeMinutes <= 0 {
			q.TimeMinutes = c.opts.DefaultTimeMinutes
		}
		if q.ExpectedKeywords == nil {
			q.ExpectedKeywords = []string{}
		}
		out = append(out, q)
	}
	return out
}

type NextQuestion struct {
	AllQuestionsAnswered bool      `json:"allQuestionsAnswered"`
	RoundType            string    `json:"roundType,omitempty"`
	QuestionID           string    `json:"questionId,omitempty"`
	QuestionText         string    `json:"questionText,omitempty"`
	QuestionNumber       int       `json:"questionNumber,omitempty"`
	TotalQuestions       int       `json:"totalQuestions"`
	Difficulty           string    `json:"difficulty,omitempty"`
	TimeMinutes          int       `json:"timeMinutes,omitempty"`
	Placeholder          bool      `json:"placeholder,omitempty"`
	SessionStartTime     time.Time `json:"sessionStartTime"`
	Proctored            bool      `json:"proctored"`
}

// NextQuestion returns the first unanswered question in stored order.
func (c *Controller) NextQuestion(ctx context.Context, sessionID, ownerID string) (*NextQuestion, error) {
	session, err := c.loadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, sessionCompletedError()
	}

	cur := nextUnanswered(session)
	next := &NextQuestion{
		TotalQuestions:   cur.Total,
		SessionStartTime: session.CreatedAt,
		Proctored:        session.Proctored,
	}
	if cur.Round == nil {
		next.AllQuestionsAnswered = true
		return next, nil
	}

	timeMinutes := cur.Question.TimeMinutes
	if timeMinutes <= 0 {
		timeMinutes = c.opts.DefaultTimeMinutes
	}
	next.RoundType = cur.Round.RoundType
	next.QuestionID = cur.Question.QuestionID
	next.QuestionText = cur.Question.Text
	next.QuestionNumber = cur.Number
	next.Difficulty = cur.Question.Difficulty
	next.TimeMinutes = timeMinutes
	next.Placeholder = cur.Question.Placeholder
	return next, nil
}

type SubmitParams struct {
	SessionID        string
	OwnerID          string
	QuestionID       string
	AnswerText       string
	TimeSpentSeconds int
}

type SubmitResult struct {
	QuestionID            string             `json:"questionId"`
	RoundType             string             `json:"roundType"`
	Evaluation            *models.Evaluation `json:"evaluation"`
	NextQuestionAvailable bool               `json:"nextQuestionAvailable"`
}

// SubmitAnswer evaluates and stores the single answer a question may have.
func (c *Controller) SubmitAnswer(ctx context.Context, p SubmitParams) (*SubmitResult, error) {
	release, err := c.acquire(ctx, p.SessionID)
	if err != nil {
		if isSessionBusy(err) {
			return nil, c.busySubmitError(ctx, p, err)
		}
		return nil, err
	}
	defer release()

	session, round, question, err := c.loadAnswerable(ctx, p)
	if err != nil {
		return nil, err
	}

	evaluation := c.evaluate(ctx, session.ID, round.RoundType, *question, p.AnswerText)

	timeSpent := p.TimeSpentSeconds
	if timeSpent < 0 {
		timeSpent = 0
	}
	submittedAt := c.now()
	answer := &models.InterviewAnswer{
		SessionID:        session.ID,
		RoundID:          round.ID,
		RoundType:        round.RoundType,
		QuestionID:       question.QuestionID,
		AnswerText:       p.AnswerText,
		StartedAt:        submittedAt.Add(-time.Duration(timeSpent) * time.Second),
		SubmittedAt:      submittedAt,
		TimeSpentSeconds: timeSpent,
		Evaluation:       evaluation,
	}

	persistCtx, cancel := persistContext(ctx)
	defer cancel()
	if err := c.sessions.InsertAnswer(persistCtx, answer); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateAnswer):
			return nil, duplicateAnswerError()
		case errors.Is(err, store.ErrSessionNotActive):
			return nil, sessionCompletedError()
		case errors.Is(err, store.ErrSessionNotFound):
			return nil, notFoundError("session_not_found", "Interview session not found")
		}
		return nil, fmt.Errorf("store answer: %w", err)
	}
	round.Answers = append(round.Answers, *answer)

	if c.metrics != nil {
		c.metrics.AnswerSubmitted(round.RoundType, evaluation.Placeholder)
	}
	c.logger.Info("answer submitted",
		zap.String("session_id", session.ID),
		zap.String("round_type", round.RoundType),
		zap.String("question_id", question.QuestionID),
		zap.Int("score", evaluation.Score))

	return &SubmitResult{
		QuestionID:            question.QuestionID,
		RoundType:             round.RoundType,
		Evaluation:            evaluation,
		NextQuestionAvailable: !allAnswered(session),
	}, nil
}

// loadAnswerable loads the session and the question p targets, failing when
// the question cannot take an answer.
func (c *Controller) loadAnswerable(ctx context.Context, p SubmitParams) (*models.InterviewSession, *models.InterviewRound, *models.InterviewQuestion, error) {
	session, err := c.loadOwned(ctx, p.SessionID, p.OwnerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if session.IsCompleted() {
		return nil, nil, nil, sessionCompletedError()
	}

	round, question := indexRounds(session).locate(session, p.QuestionID)
	if question == nil {
		return nil, nil, nil, notFoundError("question_not_found", "Question not found in this session")
	}
	if round.AnswerFor(question.QuestionID) != nil {
		return nil, nil, nil, duplicateAnswerError()
	}
	return session, round, question, nil
}

// busySubmitError re-reads the session after the lock wait ran out. A
// submission that lost to another request for the same question, or to a
// completion, reports that instead of the busy lock.
func (c *Controller) busySubmitError(ctx context.Context, p SubmitParams, busy error) error {
	if _, _, _, err := c.loadAnswerable(ctx, p); err != nil {
		return err
	}
	return busy
}

// persistContext keeps a write alive when the request context has already
// been used up by a slow provider call.
func persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

func (c *Controller) evaluate(ctx context.Context, sessionID, roundType string, question models.InterviewQuestion, answerText string) *models.Evaluation {
	evaluation, err := c.evaluator.EvaluateAnswer(ctx, question, answerText)
	if err == nil && evaluation != nil {
		fillEvaluationLists(evaluation)
		return evaluation
	}

	c.logger.Warn("answer evaluation failed, using placeholder",
		zap.String("session_id", sessionID),
		zap.String("round_type", roundType),
		zap.String("question_id", question.QuestionID),
		zap.Error(err))
	if c.metrics != nil {
		c.metrics.ProviderFallback("evaluate_answer")
	}
	return placeholderEvaluation()
}

func fillEvaluationLists(e *models.Evaluation) {
	if e.Strengths == nil {
		e.Strengths = []string{}
	}
	if e.Weaknesses == nil {
		e.Weaknesses = []string{}
	}
	if e.ImprovementTips == nil {
		e.ImprovementTips = []string{}
	}
}

// CompletionResult pairs a summary with a message describing how it came about.
type CompletionResult struct {
	Message string  `json:"message"`
	Summary Summary `json:"summary"`
}

// Complete ends a session early. Repeating it on a completed session only
// recomputes the summary.
func (c *Controller) Complete(ctx context.Context, sessionID, ownerID string) (*CompletionResult, error) {
	release, err := c.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := c.loadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	return c.finalize(ctx, session)
}

// Summary recomputes the summary of a session. Depending on the options an
// active session is completed first or summarized as of now.
func (c *Controller) Summary(ctx context.Context, sessionID, ownerID string) (*CompletionResult, error) {
	if c.opts.SummaryFinalizes {
		return c.Complete(ctx, sessionID, ownerID)
	}

	summary, err := c.readOnlySummary(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	return &CompletionResult{Message: msgSummaryRetrieved, Summary: *summary}, nil
}

// Report returns the summary behind a rendered report. It never changes the
// session state.
func (c *Controller) Report(ctx context.Context, sessionID, ownerID string) (*Summary, error) {
	return c.readOnlySummary(ctx, sessionID, ownerID)
}

func (c *Controller) readOnlySummary(ctx context.Context, sessionID, ownerID string) (*Summary, error) {
	session, err := c.loadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	var asOf time.Time
	if !session.IsCompleted() {
		asOf = c.now()
	}
	summary := Aggregate(session, c.summaryOptions(asOf))
	return &summary, nil
}

func (c *Controller) finalize(ctx context.Context, session *models.InterviewSession) (*CompletionResult, error) {
	if session.IsCompleted() {
		return &CompletionResult{
			Message: msgSummaryRetrieved,
			Summary: Aggregate(session, c.summaryOptions(time.Time{})),
		}, nil
	}

	at := c.now()
	transitioned, err := c.sessions.MarkCompleted(ctx, session.ID, at)
	if err != nil {
		return nil, fmt.Errorf("complete session %s: %w", session.ID, err)
	}
	if !transitioned {
		// someone else completed it between load and update
		reloaded, err := c.sessions.GetSession(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("reload session %s: %w", session.ID, err)
		}
		return &CompletionResult{
			Message: msgSummaryRetrieved,
			Summary: Aggregate(reloaded, c.summaryOptions(time.Time{})),
		}, nil
	}

	session.Status = models.StatusCompleted
	session.UpdatedAt = at
	summary := Aggregate(session, c.summaryOptions(time.Time{}))

	if c.metrics != nil {
		c.metrics.SessionCompleted(!summary.IsComplete)
	}
	c.publishCompleted(ctx, session, summary)
	c.logger.Info("interview session completed",
		zap.String("session_id", session.ID),
		zap.Float64("overall_score", summary.OverallScore),
		zap.Int("completion_percentage", summary.CompletionPercentage))

	message := msgCompletedPartial
	if summary.IsComplete {
		message = msgCompleted
	}
	return &CompletionResult{Message: message, Summary: summary}, nil
}

func (c *Controller) publishCompleted(ctx context.Context, session *models.InterviewSession, summary Summary) {
	if c.events == nil {
		return
	}
	event := models.InterviewCompletedEvent{
		SessionID:            session.ID,
		OwnerID:              session.OwnerID,
		RoleName:             session.RoleName,
		OverallScore:         summary.OverallScore,
		CompletionPercentage: summary.CompletionPercentage,
		IsHireable:           summary.IsHireable,
		CompletedAt:          summary.CompletedAt,
	}
	if err := c.events.PublishCompleted(ctx, event); err != nil {
		c.logger.Warn("failed to publish completion event",
			zap.String("session_id", session.ID), zap.Error(err))
	}
}

// ListSessions returns snapshots of the caller's most recent sessions.
func (c *Controller) ListSessions(ctx context.Context, ownerID string, limit int) ([]SessionSnapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	sessions, err := c.sessions.ListSessionsByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	snapshots := make([]SessionSnapshot, 0, len(sessions))
	for i := range sessions {
		snapshots = append(snapshots, Snapshot(&sessions[i]))
	}
	return snapshots, nil
}

// Stats counts sessions per status.
func (c *Controller) Stats(ctx context.Context) (*models.AdminStatsResponse, error) {
	stats, err := c.sessions.CountSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	return stats, nil
}

// SummaryOptions exposes the aggregation settings for callers outside the
// request path, such as the export job.
func (c *Controller) SummaryOptions() SummaryOptions {
	return c.summaryOptions(time.Time{})
}

func (c *Controller) summaryOptions(asOf time.Time) SummaryOptions {
	return SummaryOptions{
		HiringThreshold:    c.opts.HiringThreshold,
		DefaultTimeMinutes: c.opts.DefaultTimeMinutes,
		AsOf:               asOf,
	}
}

func (c *Controller) loadOwned(ctx context.Context, sessionID, ownerID string) (*models.InterviewSession, error) {
	session, err := c.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, notFoundError("session_not_found", "Interview session not found")
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if session.OwnerID != ownerID {
		return nil, forbiddenError("You do not have access to this session")
	}
	return session, nil
}

func (c *Controller) acquire(ctx context.Context, sessionID string) (func(), error) {
	release, err := c.locker.Acquire(ctx, sessionLockKeyPrefix+sessionID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, sessionBusyError()
		}
		return nil, fmt.Errorf("lock session %s: %w", sessionID, err)
	}
	return release, nil
}
