package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"
)

type stubInterviewService struct {
	createFn       func(ctx context.Context, p interview.CreateParams) (*interview.CreateResult, error)
	nextFn         func(ctx context.Context, sessionID, ownerID string) (*interview.NextQuestion, error)
	submitFn       func(ctx context.Context, p interview.SubmitParams) (*interview.SubmitResult, error)
	completeFn     func(ctx context.Context, sessionID, ownerID string) (*interview.CompletionResult, error)
	summaryFn      func(ctx context.Context, sessionID, ownerID string) (*interview.CompletionResult, error)
	reportFn       func(ctx context.Context, sessionID, ownerID string) (*interview.Summary, error)
	listSessionsFn func(ctx context.Context, ownerID string, limit int) ([]interview.SessionSnapshot, error)
}

func (s *stubInterviewService) Create(ctx context.Context, p interview.CreateParams) (*interview.CreateResult, error) {
	return s.createFn(ctx, p)
}

func (s *stubInterviewService) NextQuestion(ctx context.Context, sessionID, ownerID string) (*interview.NextQuestion, error) {
	return s.nextFn(ctx, sessionID, ownerID)
}

func (s *stubInterviewService) SubmitAnswer(ctx context.Context, p interview.SubmitParams) (*interview.SubmitResult, error) {
	return s.submitFn(ctx, p)
}

func (s *stubInterviewService) Complete(ctx context.Context, sessionID, ownerID string) (*interview.CompletionResult, error) {
	return s.completeFn(ctx, sessionID, ownerID)
}

func (s *stubInterviewService) Summary(ctx context.Context, sessionID, ownerID string) (*interview.CompletionResult, error) {
	return s.summaryFn(ctx, sessionID, ownerID)
}

func (s *stubInterviewService) Report(ctx context.Context, sessionID, ownerID string) (*interview.Summary, error) {
	return s.reportFn(ctx, sessionID, ownerID)
}

func (s *stubInterviewService) ListSessions(ctx context.Context, ownerID string, limit int) ([]interview.SessionSnapshot, error) {
	return s.listSessionsFn(ctx, ownerID, limit)
}

type stubProfileService struct {
	listRolesFn       func(ctx context.Context) ([]models.RoleProfile, error)
	createRoleFn      func(ctx context.Context, role *models.RoleProfile) error
	createResumeFn    func(ctx context.Context, resume *models.Resume) error
	latestResumeFn    func(ctx context.Context, ownerID string) (*models.Resume, error)
	getCandidateFn    func(ctx context.Context, ownerID string) (*models.Candidate, error)
	upsertCandidateFn func(ctx context.Context, candidate *models.Candidate) error
}

func (s *stubProfileService) ListRoles(ctx context.Context) ([]models.RoleProfile, error) {
	return s.listRolesFn(ctx)
}

func (s *stubProfileService) CreateRole(ctx context.Context, role *models.RoleProfile) error {
	return s.createRoleFn(ctx, role)
}

func (s *stubProfileService) CreateResume(ctx context.Context, resume *models.Resume) error {
	return s.createResumeFn(ctx, resume)
}

func (s *stubProfileService) LatestResume(ctx context.Context, ownerID string) (*models.Resume, error) {
	return s.latestResumeFn(ctx, ownerID)
}

func (s *stubProfileService) GetCandidate(ctx context.Context, ownerID string) (*models.Candidate, error) {
	return s.getCandidateFn(ctx, ownerID)
}

func (s *stubProfileService) UpsertCandidate(ctx context.Context, candidate *models.Candidate) error {
	return s.upsertCandidateFn(ctx, candidate)
}

type stubStructures struct{}

func (stubStructures) DefaultStructure(string) models.RoundStructures {
	return models.RoundStructures{
		models.RoundTechnical: {QuestionCount: 3, Difficulty: models.DifficultyFresher},
	}
}

type stubStats struct {
	stats *models.AdminStatsResponse
	err   error
}

func (s stubStats) Stats(context.Context) (*models.AdminStatsResponse, error) {
	return s.stats, s.err
}

// asCaller injects an authenticated caller the way Authenticate would.
func asCaller(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithCaller(r.Context(), &middleware.Caller{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func doRequest(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type decodedEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) decodedEnvelope {
	t.Helper()
	var env decodedEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error %q: %v", rec.Body.String(), err)
	}
	return resp
}
