package interview

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/lock"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/store"
)

func expectKind(t *testing.T, err error, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func TestCreateBuildsRequestedRounds(t *testing.T) {
	h := newHarness(t, Options{})

	res, err := h.ctrl.Create(context.Background(), CreateParams{
		OwnerID:        "user-1",
		Mode:           " Role ",
		RoleProfileID:  "role-1",
		EnabledRounds:  []string{models.RoundHR, "bogus", models.RoundTechnical, models.RoundHR},
		QuestionCounts: map[string]int{models.RoundTechnical: 2, models.RoundHR: 1},
		Proctored:      true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if res.Status != models.StatusActive || !res.Proctored || res.Mode != models.ModeRole {
		t.Fatalf("unexpected result header: %+v", res)
	}
	if res.RoleProfile.Name != "Backend Developer" || res.RoleProfile.Company != "Acme" {
		t.Fatalf("unexpected role ref: %+v", res.RoleProfile)
	}
	if len(res.RoundsMetadata) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(res.RoundsMetadata))
	}
	if res.RoundsMetadata[0].RoundType != models.RoundHR || res.RoundsMetadata[0].QuestionCount != 1 {
		t.Fatalf("expected hr round first, got %+v", res.RoundsMetadata[0])
	}
	if res.RoundsMetadata[1].RoundType != models.RoundTechnical || res.RoundsMetadata[1].RoundIndex != 1 {
		t.Fatalf("expected technical round second, got %+v", res.RoundsMetadata[1])
	}

	session, _ := h.sessions.GetSession(context.Background(), res.SessionID)
	tech := session.Rounds[1]
	for i, q := range tech.Questions {
		if want := questionID(models.RoundTechnical, i+1); q.QuestionID != want {
			t.Fatalf("expected question id %s, got %s", want, q.QuestionID)
		}
		if q.TimeMinutes != models.DefaultTimeMinutes {
			t.Fatalf("expected default time minutes, got %d", q.TimeMinutes)
		}
		if q.Difficulty != models.DifficultyFresher {
			t.Fatalf("expected fresher difficulty, got %s", q.Difficulty)
		}
	}
}

func TestCreateUsesDifficultyDefaults(t *testing.T) {
	h := newHarness(t, Options{})

	res, err := h.ctrl.Create(context.Background(), CreateParams{
		OwnerID:       "user-1",
		Mode:          models.ModeRole,
		RoleProfileID: "role-1",
		Difficulty:    "2-month summer intern",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if res.Difficulty != models.DifficultySummerIntern {
		t.Fatalf("expected summer intern difficulty, got %s", res.Difficulty)
	}
	// manager and cto are zero for summer interns
	var got []string
	for _, r := range res.RoundsMetadata {
		got = append(got, r.RoundType)
	}
	if strings.Join(got, ",") != "technical,hr,case" {
		t.Fatalf("unexpected default rounds: %v", got)
	}
	if res.RoundsMetadata[0].QuestionCount != 3 {
		t.Fatalf("expected 3 technical questions, got %d", res.RoundsMetadata[0].QuestionCount)
	}
}

func TestCreateClampsQuestionCounts(t *testing.T) {
	h := newHarness(t, Options{})

	res, err := h.ctrl.Create(context.Background(), CreateParams{
		OwnerID:        "user-1",
		Mode:           models.ModeRole,
		RoleProfileID:  "role-1",
		EnabledRounds:  []string{models.RoundCTO},
		QuestionCounts: map[string]int{models.RoundCTO: 50},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.RoundsMetadata[0].QuestionCount != models.MaxQuestionCount {
		t.Fatalf("expected count clamped to %d, got %d", models.MaxQuestionCount, res.RoundsMetadata[0].QuestionCount)
	}
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	_, err := h.ctrl.Create(ctx, CreateParams{OwnerID: "user-1", Mode: "panel", RoleProfileID: "role-1"})
	expectKind(t, err, ErrValidation)

	_, err = h.ctrl.Create(ctx, CreateParams{OwnerID: "user-1", Mode: "role"})
	expectKind(t, err, ErrValidation)

	_, err = h.ctrl.Create(ctx, CreateParams{OwnerID: "user-1", Mode: "role", RoleProfileID: "missing"})
	expectKind(t, err, ErrNotFound)

	_, err = h.ctrl.Create(ctx, CreateParams{
		OwnerID: "user-1", Mode: "role", RoleProfileID: "role-1",
		EnabledRounds: []string{"panel", "pairing"},
	})
	expectKind(t, err, ErrValidation)
	var domainErr *Error
	if !errors.As(err, &domainErr) || domainErr.Message != "At least one interview round must be enabled" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateResumeModes(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	base := CreateParams{OwnerID: "user-1", Mode: models.ModeResume, RoleProfileID: "role-1"}

	_, err := h.ctrl.Create(ctx, base)
	expectKind(t, err, ErrValidation)

	h.profiles.resumes["other"] = &models.Resume{ID: "other", OwnerID: "user-2"}
	withForeign := base
	withForeign.ResumeID = "other"
	_, err = h.ctrl.Create(ctx, withForeign)
	expectKind(t, err, ErrForbidden)

	h.profiles.resumes["old"] = &models.Resume{ID: "old", OwnerID: "user-1", CreatedAt: time.Unix(100, 0)}
	h.profiles.resumes["new"] = &models.Resume{ID: "new", OwnerID: "user-1", CreatedAt: time.Unix(200, 0), Skills: []string{"go"}}
	h.profiles.candidates["user-1"] = &models.Candidate{OwnerID: "user-1", ExperienceLevel: "fresher"}

	res, err := h.ctrl.Create(ctx, base)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	session, _ := h.sessions.GetSession(ctx, res.SessionID)
	if session.ResumeID != "new" {
		t.Fatalf("expected latest resume to be used, got %s", session.ResumeID)
	}
	qc := h.questions.contexts[models.RoundTechnical]
	if qc.Resume == nil || qc.Resume.ID != "new" || qc.Candidate == nil {
		t.Fatalf("expected resume and candidate in question context, got %+v", qc)
	}
}

func TestCreateIsolatesProviderFailures(t *testing.T) {
	h := newHarness(t, Options{ProviderName: "gemini"})
	h.questions.fail = map[string]error{
		models.RoundHR: &llm.ProviderError{Provider: "gemini", Code: llm.ErrCodeAPIKey, Message: "missing key"},
	}

	id := h.createTwoRoundSession(t)
	session, _ := h.sessions.GetSession(context.Background(), id)

	tech, hr := session.Rounds[0], session.Rounds[1]
	if len(tech.Questions) != 2 || tech.Questions[0].Placeholder {
		t.Fatalf("expected technical round to be generated normally, got %+v", tech.Questions)
	}
	if len(hr.Questions) != 1 || !hr.Questions[0].Placeholder {
		t.Fatalf("expected a single placeholder for hr, got %+v", hr.Questions)
	}
	want := "Error generating questions. Gemini API key is not configured. Please check your .env file."
	if hr.Questions[0].Text != want || hr.Questions[0].QuestionID != "hr-q1" {
		t.Fatalf("unexpected placeholder %+v", hr.Questions[0])
	}
}

func TestNextQuestionSequencing(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)
	ctx := context.Background()

	next, err := h.ctrl.NextQuestion(ctx, id, "user-1")
	if err != nil {
		t.Fatalf("NextQuestion returned error: %v", err)
	}
	if next.QuestionID != "technical-q1" || next.QuestionNumber != 1 || next.TotalQuestions != 3 {
		t.Fatalf("unexpected first question: %+v", next)
	}
	if !next.SessionStartTime.Equal(h.clock.Now()) {
		t.Fatalf("expected session start time, got %v", next.SessionStartTime)
	}

	// answering out of order leaves the earlier gap as next
	h.answer(t, id, "technical-q2", 7)
	next, _ = h.ctrl.NextQuestion(ctx, id, "user-1")
	if next.QuestionID != "technical-q1" || next.QuestionNumber != 1 {
		t.Fatalf("expected technical-q1 to remain next, got %+v", next)
	}

	h.answer(t, id, "technical-q1", 7)
	next, _ = h.ctrl.NextQuestion(ctx, id, "user-1")
	if next.QuestionID != "hr-q1" || next.QuestionNumber != 3 || next.RoundType != models.RoundHR {
		t.Fatalf("expected hr-q1 as question 3, got %+v", next)
	}

	h.answer(t, id, "hr-q1", 7)
	next, err = h.ctrl.NextQuestion(ctx, id, "user-1")
	if err != nil || !next.AllQuestionsAnswered {
		t.Fatalf("expected all questions answered signal, got %+v (%v)", next, err)
	}
}

func TestAccessChecks(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)
	ctx := context.Background()

	_, err := h.ctrl.NextQuestion(ctx, "missing", "user-1")
	expectKind(t, err, ErrNotFound)

	_, err = h.ctrl.NextQuestion(ctx, id, "intruder")
	expectKind(t, err, ErrForbidden)

	_, err = h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "intruder", QuestionID: "technical-q1", AnswerText: "a long enough answer"})
	expectKind(t, err, ErrForbidden)

	_, err = h.ctrl.Complete(ctx, id, "intruder")
	expectKind(t, err, ErrForbidden)

	_, err = h.ctrl.Summary(ctx, id, "intruder")
	expectKind(t, err, ErrForbidden)

	_, err = h.ctrl.Report(ctx, id, "intruder")
	expectKind(t, err, ErrForbidden)

	if h.sessions.status(id) != models.StatusActive {
		t.Fatal("forbidden calls must not change the session")
	}
}

func TestSubmitAnswerRecordsTiming(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)
	h.clock.Advance(10 * time.Minute)

	res, err := h.ctrl.SubmitAnswer(context.Background(), SubmitParams{
		SessionID:        id,
		OwnerID:          "user-1",
		QuestionID:       "technical-q1",
		AnswerText:       "I would use a hash map",
		TimeSpentSeconds: 90,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	if !res.NextQuestionAvailable || res.RoundType != models.RoundTechnical {
		t.Fatalf("unexpected result %+v", res)
	}

	session, _ := h.sessions.GetSession(context.Background(), id)
	answer := session.Rounds[0].AnswerFor("technical-q1")
	if answer == nil {
		t.Fatal("expected answer to be stored")
	}
	if !answer.SubmittedAt.Equal(h.clock.Now()) {
		t.Fatalf("unexpected submittedAt %v", answer.SubmittedAt)
	}
	if got := answer.SubmittedAt.Sub(answer.StartedAt); got != 90*time.Second {
		t.Fatalf("expected startedAt 90s before submission, got %v", got)
	}
	if !session.UpdatedAt.Equal(h.clock.Now()) {
		t.Fatalf("expected updatedAt to follow the answer, got %v", session.UpdatedAt)
	}
}

func TestSubmitAnswerRejectsDuplicatesAndUnknownQuestions(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)
	ctx := context.Background()

	h.answer(t, id, "technical-q1", 6)
	before, _ := h.sessions.GetSession(ctx, id)
	first := *before.Rounds[0].AnswerFor("technical-q1")

	h.clock.Advance(time.Minute)
	h.evaluator.scores["technical-q1"] = 2
	_, err := h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "technical-q1", AnswerText: "second attempt here"})
	expectKind(t, err, ErrDuplicateAnswer)
	var domainErr *Error
	if !errors.As(err, &domainErr) || domainErr.Code != "already_answered" {
		t.Fatalf("expected already_answered code, got %v", err)
	}
	if h.evaluator.calls != 1 {
		t.Fatalf("duplicate must not be evaluated, evaluator called %d times", h.evaluator.calls)
	}

	after, _ := h.sessions.GetSession(ctx, id)
	if n := len(after.Rounds[0].Answers); n != 1 {
		t.Fatalf("expected a single stored answer, got %d", n)
	}
	stored := after.Rounds[0].AnswerFor("technical-q1")
	if stored.AnswerText != first.AnswerText || !stored.SubmittedAt.Equal(first.SubmittedAt) {
		t.Fatalf("first answer was overwritten: %+v", stored)
	}
	if stored.Evaluation.Score != 6 || stored.Evaluation.FeedbackText != first.Evaluation.FeedbackText {
		t.Fatalf("first evaluation was overwritten: %+v", stored.Evaluation)
	}

	_, err = h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "technical-q9", AnswerText: "an answer to nothing"})
	expectKind(t, err, ErrNotFound)

	_, err = h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "manager-q1", AnswerText: "an answer to nothing"})
	expectKind(t, err, ErrNotFound)
}

func TestSubmitAnswerFindsQuestionsWithoutPrefix(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	session := &models.InterviewSession{
		ID:      "legacy",
		OwnerID: "user-1",
		Mode:    models.ModeRole,
		Status:  models.StatusActive,
		Rounds: []models.InterviewRound{
			{RoundType: models.RoundTechnical, Questions: []models.InterviewQuestion{{QuestionID: "q1", Text: "a"}}},
			{RoundType: models.RoundHR, Questions: []models.InterviewQuestion{{QuestionID: "q2", Text: "b"}}},
		},
	}
	if err := h.sessions.CreateSession(ctx, session); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	res, err := h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: "legacy", OwnerID: "user-1", QuestionID: "q2", AnswerText: "an answer for hr"})
	if err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	if res.RoundType != models.RoundHR || !res.NextQuestionAvailable {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSubmitAnswerFallsBackToPlaceholderEvaluation(t *testing.T) {
	h := newHarness(t, Options{})
	h.evaluator.err = &llm.ProviderError{Provider: "gemini", Code: llm.ErrCodeServiceDown, Message: "down"}
	id := h.createTwoRoundSession(t)

	res, err := h.ctrl.SubmitAnswer(context.Background(), SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "hr-q1", AnswerText: "I enjoy working in teams"})
	if err != nil {
		t.Fatalf("provider failure must not surface, got %v", err)
	}
	eval := res.Evaluation
	if eval.Score != 0 || !eval.Placeholder || eval.FeedbackText != placeholderFeedback {
		t.Fatalf("unexpected placeholder evaluation %+v", eval)
	}
	if eval.Strengths == nil || eval.Weaknesses == nil || eval.ImprovementTips == nil {
		t.Fatal("placeholder lists must be empty, not nil")
	}

	session, _ := h.sessions.GetSession(context.Background(), id)
	if session.Rounds[1].AnswerFor("hr-q1") == nil {
		t.Fatal("answer must be saved even when evaluation fails")
	}
}

func TestSubmitAnswerMapsStoreRaces(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)
	params := SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "technical-q1", AnswerText: "a racing answer"}

	h.sessions.insertErr = store.ErrDuplicateAnswer
	_, err := h.ctrl.SubmitAnswer(context.Background(), params)
	expectKind(t, err, ErrDuplicateAnswer)

	h.sessions.insertErr = store.ErrSessionNotActive
	_, err = h.ctrl.SubmitAnswer(context.Background(), params)
	expectKind(t, err, ErrInvalidState)
}

func TestConcurrentDuplicateSubmissionsHaveOneWinner(t *testing.T) {
	h := newHarness(t, Options{})
	h.evaluator.delay = 20 * time.Millisecond
	id := h.createTwoRoundSession(t)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.ctrl.SubmitAnswer(context.Background(), SubmitParams{
				SessionID: id, OwnerID: "user-1", QuestionID: "technical-q1", AnswerText: "same answer, many tabs",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrDuplicateAnswer):
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
	if h.evaluator.calls != 1 {
		t.Fatalf("expected a single evaluation, got %d", h.evaluator.calls)
	}
}

func TestDuplicateSubmissionWaitsForSlowEvaluation(t *testing.T) {
	h := newHarness(t, Options{})
	h.ctrl.locker = lock.NewLocalLockerWithWait(time.Second)
	h.evaluator.delay = 150 * time.Millisecond
	h.evaluator.started = make(chan struct{}, 2)
	id := h.createTwoRoundSession(t)
	params := SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "technical-q1", AnswerText: "submitted from two tabs"}

	firstErr := make(chan error, 1)
	go func() {
		_, err := h.ctrl.SubmitAnswer(context.Background(), params)
		firstErr <- err
	}()
	<-h.evaluator.started

	_, err := h.ctrl.SubmitAnswer(context.Background(), params)
	expectKind(t, err, ErrDuplicateAnswer)
	var domainErr *Error
	if !errors.As(err, &domainErr) || domainErr.Code != "already_answered" {
		t.Fatalf("expected already_answered, got %v", err)
	}
	if err := <-firstErr; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if h.evaluator.calls != 1 {
		t.Fatalf("expected a single evaluation, got %d", h.evaluator.calls)
	}
}

func TestBusySessionStillReportsAnsweredQuestions(t *testing.T) {
	h := newHarness(t, Options{})
	h.ctrl.locker = lock.NewLocalLockerWithWait(30 * time.Millisecond)
	id := h.createTwoRoundSession(t)
	ctx := context.Background()
	h.answer(t, id, "technical-q1", 6)

	release, err := h.ctrl.locker.Acquire(ctx, sessionLockKeyPrefix+id)
	if err != nil {
		t.Fatalf("failed to hold session lock: %v", err)
	}
	defer release()

	_, err = h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "technical-q1", AnswerText: "a late retry"})
	expectKind(t, err, ErrDuplicateAnswer)

	_, err = h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-2", QuestionID: "technical-q1", AnswerText: "not my session"})
	expectKind(t, err, ErrForbidden)

	_, err = h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "technical-q2", AnswerText: "a fresh answer"})
	expectKind(t, err, ErrInvalidState)
	var domainErr *Error
	if !errors.As(err, &domainErr) || domainErr.Code != "session_busy" {
		t.Fatalf("expected session_busy, got %v", err)
	}
	if h.evaluator.calls != 1 {
		t.Fatalf("busy submissions must not be evaluated, got %d calls", h.evaluator.calls)
	}
}

func TestCompleteWaitsForInFlightEvaluation(t *testing.T) {
	h := newHarness(t, Options{})
	h.evaluator.delay = 100 * time.Millisecond
	h.evaluator.started = make(chan struct{}, 1)
	id := h.createTwoRoundSession(t)

	submitErr := make(chan error, 1)
	go func() {
		_, err := h.ctrl.SubmitAnswer(context.Background(), SubmitParams{
			SessionID: id, OwnerID: "user-1", QuestionID: "technical-q1", AnswerText: "answered just before finishing",
		})
		submitErr <- err
	}()
	<-h.evaluator.started

	res, err := h.ctrl.Complete(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if err := <-submitErr; err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	if res.Summary.QuestionsAnswered != 1 {
		t.Fatalf("expected the in-flight answer in the summary, got %d answered", res.Summary.QuestionsAnswered)
	}
	if h.sessions.status(id) != models.StatusCompleted {
		t.Fatal("expected session to be completed")
	}
}

func TestSubmitAnswerStoresPlaceholderAfterDeadline(t *testing.T) {
	h := newHarness(t, Options{})
	h.evaluator.hang = true
	id := h.createTwoRoundSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "technical-q1", AnswerText: "an answer the provider never saw"})
	if err != nil {
		t.Fatalf("expired deadline must not lose the answer, got %v", err)
	}
	if !res.Evaluation.Placeholder {
		t.Fatalf("expected placeholder evaluation, got %+v", res.Evaluation)
	}

	session, _ := h.sessions.GetSession(context.Background(), id)
	stored := session.Rounds[0].AnswerFor("technical-q1")
	if stored == nil || !stored.Evaluation.Placeholder {
		t.Fatalf("expected stored placeholder answer, got %+v", stored)
	}
}

func TestCreateStoresPlaceholderRoundsAfterDeadline(t *testing.T) {
	h := newHarness(t, Options{})
	h.questions.hang = true

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := h.ctrl.Create(ctx, CreateParams{
		OwnerID:        "user-1",
		Mode:           "role",
		RoleProfileID:  "role-1",
		EnabledRounds:  []string{models.RoundTechnical, models.RoundHR},
		QuestionCounts: map[string]int{models.RoundTechnical: 2, models.RoundHR: 1},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	session, err := h.sessions.GetSession(context.Background(), res.SessionID)
	if err != nil {
		t.Fatalf("session was not stored: %v", err)
	}
	if len(session.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(session.Rounds))
	}
	for _, round := range session.Rounds {
		if len(round.Questions) != 1 || !round.Questions[0].Placeholder {
			t.Fatalf("expected a single placeholder question in %s, got %+v", round.RoundType, round.Questions)
		}
	}
}

func TestFullSessionScenario(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)

	h.answer(t, id, "technical-q1", 6)
	h.answer(t, id, "technical-q2", 8)
	last := h.answer(t, id, "hr-q1", 9)
	if last.NextQuestionAvailable {
		t.Fatal("expected no further questions")
	}
	if h.sessions.status(id) != models.StatusActive {
		t.Fatal("answering the last question must not complete the session")
	}

	res, err := h.ctrl.Complete(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	s := res.Summary
	if res.Message != "Interview completed successfully" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if s.OverallScore != 7.7 || s.CompletionPercentage != 100 || !s.IsComplete || !s.IsHireable || s.ScoreGap != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Status != models.StatusCompleted {
		t.Fatalf("expected completed status in summary, got %s", s.Status)
	}
}

func TestCompleteEarlyScenario(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)
	ctx := context.Background()

	h.answer(t, id, "technical-q1", 4)
	h.clock.Advance(5 * time.Minute)

	res, err := h.ctrl.Complete(ctx, id, "user-1")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	s := res.Summary
	if res.Message != "Interview completed with partial answers" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if s.CompletionPercentage != 33 || s.IsComplete || s.IsHireable || s.ScoreGap != 3.0 {
		t.Fatalf("unexpected summary %+v", s)
	}
	completedAt := s.CompletedAt

	h.clock.Advance(time.Hour)
	again, err := h.ctrl.Complete(ctx, id, "user-1")
	if err != nil {
		t.Fatalf("second Complete returned error: %v", err)
	}
	if again.Message != "Interview summary retrieved" {
		t.Fatalf("unexpected message %q", again.Message)
	}
	if !again.Summary.CompletedAt.Equal(completedAt) {
		t.Fatalf("completion must not be re-stamped: %v vs %v", again.Summary.CompletedAt, completedAt)
	}
	if h.sessions.transitions != 1 {
		t.Fatalf("expected exactly one transition, got %d", h.sessions.transitions)
	}
	if len(h.events.events) != 1 || h.events.events[0].SessionID != id {
		t.Fatalf("expected one completion event, got %+v", h.events.events)
	}

	_, err = h.ctrl.NextQuestion(ctx, id, "user-1")
	expectKind(t, err, ErrInvalidState)
	_, err = h.ctrl.SubmitAnswer(ctx, SubmitParams{SessionID: id, OwnerID: "user-1", QuestionID: "hr-q1", AnswerText: "too late for this"})
	expectKind(t, err, ErrInvalidState)
}

func TestSummaryFinalizesByDefault(t *testing.T) {
	h := newHarness(t, Options{SummaryFinalizes: true})
	id := h.createTwoRoundSession(t)

	res, err := h.ctrl.Summary(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if h.sessions.status(id) != models.StatusCompleted {
		t.Fatal("expected summary to finalize the session")
	}
	if res.Message != "Interview completed with partial answers" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestReadOnlySummaryIsIdempotent(t *testing.T) {
	h := newHarness(t, Options{SummaryFinalizes: false})
	id := h.createTwoRoundSession(t)
	h.answer(t, id, "technical-q1", 8)
	h.clock.Advance(2 * time.Minute)

	first, err := h.ctrl.Summary(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	second, _ := h.ctrl.Summary(context.Background(), id, "user-1")

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("expected identical summaries:\n%s\n%s", a, b)
	}
	if h.sessions.status(id) != models.StatusActive {
		t.Fatal("read-only summary must not complete the session")
	}
	s := first.Summary
	if s.IsComplete || s.CompletionPercentage != 33 || s.OverallScore != 8.0 {
		t.Fatalf("unexpected partial summary %+v", s)
	}
	if s.TotalInterviewTimeSeconds != 120 {
		t.Fatalf("expected elapsed time as of now, got %d", s.TotalInterviewTimeSeconds)
	}
}

func TestReportDoesNotFinalize(t *testing.T) {
	h := newHarness(t, Options{SummaryFinalizes: true})
	id := h.createTwoRoundSession(t)

	summary, err := h.ctrl.Report(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if summary.Status != models.StatusActive || h.sessions.status(id) != models.StatusActive {
		t.Fatal("report must leave the session active")
	}
}

func TestListSessionsSnapshots(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	first := h.createTwoRoundSession(t)
	h.clock.Advance(time.Minute)
	second := h.createTwoRoundSession(t)

	h.answer(t, second, "technical-q1", 6)
	h.clock.Advance(time.Minute)
	h.answer(t, second, "hr-q1", 9)

	snaps, err := h.ctrl.ListSessions(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("ListSessions returned error: %v", err)
	}
	if len(snaps) != 2 || snaps[0].SessionID != second || snaps[1].SessionID != first {
		t.Fatalf("expected newest first, got %+v", snaps)
	}

	latest := snaps[0]
	if latest.AverageScore == nil || *latest.AverageScore != 7.5 {
		t.Fatalf("unexpected average score %v", latest.AverageScore)
	}
	if latest.LatestFeedback == nil || *latest.LatestFeedback != "feedback for hr-q1" {
		t.Fatalf("unexpected latest feedback %v", latest.LatestFeedback)
	}
	if latest.AnsweredQuestions != 2 || latest.CompletionPercentage != 67 {
		t.Fatalf("unexpected progress %+v", latest)
	}
	if latest.Rounds[0].CompletionPercentage != 50 || latest.Rounds[1].CompletionPercentage != 100 {
		t.Fatalf("unexpected round snapshots %+v", latest.Rounds)
	}

	untouched := snaps[1]
	if untouched.AverageScore != nil || untouched.LatestFeedback != nil {
		t.Fatalf("expected null score and feedback, got %+v", untouched)
	}

	limited, _ := h.ctrl.ListSessions(ctx, "user-1", 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestStats(t *testing.T) {
	h := newHarness(t, Options{})
	id := h.createTwoRoundSession(t)
	h.createTwoRoundSession(t)
	if _, err := h.ctrl.Complete(context.Background(), id, "user-1"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	stats, err := h.ctrl.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalSessions != 2 || stats.ActiveSessions != 1 || stats.CompletedSessions != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
