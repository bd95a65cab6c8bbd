package interview

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mockprep/interview/internal/catalog"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/store"
)

// memorySessions mimics the gorm repository closely enough for lifecycle
// tests: answers are unique per question and only land on active sessions.
type memorySessions struct {
	mu          sync.Mutex
	sessions    map[string]*models.InterviewSession
	nextRoundID uint
	transitions int
	insertErr   error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*models.InterviewSession)}
}

func cloneSession(s *models.InterviewSession) *models.InterviewSession {
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	var out models.InterviewSession
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	// fields hidden from JSON
	out.ID = s.ID
	out.OwnerID = s.OwnerID
	for i := range out.Rounds {
		out.Rounds[i].ID = s.Rounds[i].ID
		out.Rounds[i].SessionID = s.Rounds[i].SessionID
		for j := range out.Rounds[i].Questions {
			out.Rounds[i].Questions[j].Position = s.Rounds[i].Questions[j].Position
		}
	}
	return &out
}

func (m *memorySessions) CreateSession(ctx context.Context, session *models.InterviewSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range session.Rounds {
		m.nextRoundID++
		session.Rounds[i].ID = m.nextRoundID
		session.Rounds[i].SessionID = session.ID
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *memorySessions) GetSession(_ context.Context, id string) (*models.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (m *memorySessions) InsertAnswer(ctx context.Context, answer *models.InterviewAnswer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	s, ok := m.sessions[answer.SessionID]
	if !ok {
		return store.ErrSessionNotFound
	}
	if s.Status != models.StatusActive {
		return store.ErrSessionNotActive
	}
	for i := range s.Rounds {
		round := &s.Rounds[i]
		if round.RoundType != answer.RoundType {
			continue
		}
		if round.AnswerFor(answer.QuestionID) != nil {
			return store.ErrDuplicateAnswer
		}
		round.Answers = append(round.Answers, *answer)
		s.UpdatedAt = answer.SubmittedAt
		return nil
	}
	return store.ErrSessionNotFound
}

func (m *memorySessions) MarkCompleted(_ context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false, store.ErrSessionNotFound
	}
	if s.Status == models.StatusCompleted {
		return false, nil
	}
	s.Status = models.StatusCompleted
	s.UpdatedAt = at
	m.transitions++
	return true, nil
}

func (m *memorySessions) ListSessionsByOwner(_ context.Context, ownerID string, limit int) ([]models.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.InterviewSession
	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			out = append(out, *cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memorySessions) CountSessions(context.Context) (*models.AdminStatsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.AdminStatsResponse{}
	for _, s := range m.sessions {
		stats.TotalSessions++
		switch s.Status {
		case models.StatusActive:
			stats.ActiveSessions++
		case models.StatusCompleted:
			stats.CompletedSessions++
		}
	}
	return stats, nil
}

func (m *memorySessions) status(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id].Status
}

type memoryProfiles struct {
	roles      map[string]*models.RoleProfile
	resumes    map[string]*models.Resume
	candidates map[string]*models.Candidate
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{
		roles: map[string]*models.RoleProfile{
			"role-1": {ID: "role-1", RoleName: "Backend Developer", Company: "Acme"},
		},
		resumes:    map[string]*models.Resume{},
		candidates: map[string]*models.Candidate{},
	}
}

func (p *memoryProfiles) GetRoleProfile(_ context.Context, id string) (*models.RoleProfile, error) {
	if r, ok := p.roles[id]; ok {
		return r, nil
	}
	return nil, store.ErrRoleNotFound
}

func (p *memoryProfiles) GetResume(_ context.Context, id string) (*models.Resume, error) {
	if r, ok := p.resumes[id]; ok {
		return r, nil
	}
	return nil, store.ErrResumeNotFound
}

func (p *memoryProfiles) LatestResume(_ context.Context, ownerID string) (*models.Resume, error) {
	var latest *models.Resume
	for _, r := range p.resumes {
		if r.OwnerID == ownerID && (latest == nil || r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
		}
	}
	if latest == nil {
		return nil, store.ErrResumeNotFound
	}
	return latest, nil
}

func (p *memoryProfiles) GetCandidate(_ context.Context, ownerID string) (*models.Candidate, error) {
	if c, ok := p.candidates[ownerID]; ok {
		return c, nil
	}
	return nil, store.ErrCandidateNotFound
}

// stubQuestions returns qc.QuestionCount questions unless fail says otherwise.
// With hang set it waits for the caller's context like a stalled provider.
type stubQuestions struct {
	mu       sync.Mutex
	fail     map[string]error
	hang     bool
	contexts map[string]QuestionContext
}

func (s *stubQuestions) GenerateQuestions(ctx context.Context, roundType string, qc QuestionContext) ([]models.InterviewQuestion, error) {
	if s.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s.mu.Lock()
	if s.contexts == nil {
		s.contexts = make(map[string]QuestionContext)
	}
	s.contexts[roundType] = qc
	err := s.fail[roundType]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]models.InterviewQuestion, qc.QuestionCount)
	for i := range out {
		out[i] = models.InterviewQuestion{
			QuestionID: "ignored",
			Text:       roundType + " question",
		}
	}
	return out, nil
}

type stubEvaluator struct {
	calls  int32
	scores map[string]int
	err    error
	delay  time.Duration
	hang   bool

	// started receives one value per call once the evaluation begins
	started chan struct{}
}

func (s *stubEvaluator) EvaluateAnswer(ctx context.Context, q models.InterviewQuestion, _ string) (*models.Evaluation, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	score := 5
	if v, ok := s.scores[q.QuestionID]; ok {
		score = v
	}
	return &models.Evaluation{
		Score:        score,
		FeedbackText: "feedback for " + q.QuestionID,
		Strengths:    []string{"clear"},
	}, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []models.InterviewCompletedEvent
}

func (r *recordedEvents) PublishCompleted(_ context.Context, e models.InterviewCompletedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	ctrl      *Controller
	sessions  *memorySessions
	profiles  *memoryProfiles
	questions *stubQuestions
	evaluator *stubEvaluator
	events    *recordedEvents
	clock     *testClock
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	h := &harness{
		sessions:  newMemorySessions(),
		profiles:  newMemoryProfiles(),
		questions: &stubQuestions{},
		evaluator: &stubEvaluator{scores: map[string]int{}},
		events:    &recordedEvents{},
		clock:     &testClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
	h.ctrl = NewController(Dependencies{
		Sessions:   h.sessions,
		Profiles:   h.profiles,
		Questions:  h.questions,
		Evaluator:  h.evaluator,
		Structures: cat,
		Events:     h.events,
	}, opts)
	h.ctrl.now = h.clock.Now

	ids := 0
	h.ctrl.newID = func() string {
		ids++
		return "session-" + string(rune('0'+ids))
	}
	return h
}

// createTwoRoundSession builds technical(2) + hr(1) in role mode.
func (h *harness) createTwoRoundSession(t *testing.T) string {
	t.Helper()
	res, err := h.ctrl.Create(context.Background(), CreateParams{
		OwnerID:        "user-1",
		Mode:           "role",
		RoleProfileID:  "role-1",
		EnabledRounds:  []string{models.RoundTechnical, models.RoundHR},
		QuestionCounts: map[string]int{models.RoundTechnical: 2, models.RoundHR: 1},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return res.SessionID
}

func (h *harness) answer(t *testing.T, sessionID, questionID string, score int) *SubmitResult {
	t.Helper()
	h.evaluator.scores[questionID] = score
	res, err := h.ctrl.SubmitAnswer(context.Background(), SubmitParams{
		SessionID:        sessionID,
		OwnerID:          "user-1",
		QuestionID:       questionID,
		AnswerText:       "a thoughtful answer to " + questionID,
		TimeSpentSeconds: 60,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer(%s) returned error: %v", questionID, err)
	}
	return res
}
