package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// InterviewService is the part of the interview controller the HTTP layer
// drives.
type InterviewService interface {
	Create(ctx context.Context, p interview.CreateParams) (*interview.CreateResult, error)
	NextQuestion(ctx context.Context, sessionID, ownerID string) (*interview.NextQuestion, error)
	SubmitAnswer(ctx context.Context, p interview.SubmitParams) (*interview.SubmitResult, error)
	Complete(ctx context.Context, sessionID, ownerID string) (*interview.CompletionResult, error)
	Summary(ctx context.Context, sessionID, ownerID string) (*interview.CompletionResult, error)
	Report(ctx context.Context, sessionID, ownerID string) (*interview.Summary, error)
	ListSessions(ctx context.Context, ownerID string, limit int) ([]interview.SessionSnapshot, error)
}

type InterviewHandler struct {
	service InterviewService
	logger  *zap.Logger
}

func NewInterviewHandler(service InterviewService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{service: service, logger: logger}
}

type sessionList struct {
	Sessions []interview.SessionSnapshot `json:"sessions"`
	Count    int                         `json:"count"`
}

func (h *InterviewHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateSessionRequest](r)
	ownerID := callerID(r)
	if ownerID == "" {
		unauthorized(w)
		return
	}

	result, err := h.service.Create(r.Context(), interview.CreateParams{
		OwnerID:        ownerID,
		Mode:           req.Mode,
		RoleProfileID:  req.RoleProfileID,
		ResumeID:       req.ResumeID,
		EnabledRounds:  req.EnabledRounds,
		QuestionCounts: req.QuestionCounts,
		Difficulty:     req.Difficulty,
		Proctored:      req.Proctored,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	h.logger.Debug("create session request served",
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		zap.String("session_id", result.SessionID))
	respond(w, http.StatusCreated, "Interview session started successfully", result)
}

func (h *InterviewHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID := callerID(r)
	if ownerID == "" {
		unauthorized(w)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, h.logger, r, &models.ErrorResponse{Code: "invalid_limit", Message: "limit must be an integer"})
			return
		}
		limit = parsed
	}

	sessions, err := h.service.ListSessions(r.Context(), ownerID, limit)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respond(w, http.StatusOK, "", sessionList{Sessions: sessions, Count: len(sessions)})
}

func (h *InterviewHandler) NextQuestionHandler(w http.ResponseWriter, r *http.Request) {
	next, err := h.service.NextQuestion(r.Context(), chi.URLParam(r, "sessionId"), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	message := ""
	if next.AllQuestionsAnswered {
		message = "All questions have been answered"
	}
	respond(w, http.StatusOK, message, next)
}

func (h *InterviewHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)
	sessionID := chi.URLParam(r, "sessionId")

	result, err := h.service.SubmitAnswer(r.Context(), interview.SubmitParams{
		SessionID:        sessionID,
		OwnerID:          callerID(r),
		QuestionID:       req.QuestionID,
		AnswerText:       req.AnswerText,
		TimeSpentSeconds: req.TimeSpent(),
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respond(w, http.StatusOK, "Answer submitted successfully", result)
}

func (h *InterviewHandler) CompleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Complete(r.Context(), chi.URLParam(r, "sessionId"), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respond(w, http.StatusOK, result.Message, result.Summary)
}

func (h *InterviewHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Summary(r.Context(), chi.URLParam(r, "sessionId"), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respond(w, http.StatusOK, result.Message, result.Summary)
}

// ReportHandler renders the plain-text report as a download, or the report
// content itself with ?format=json.
func (h *InterviewHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Report(r.Context(), chi.URLParam(r, "sessionId"), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		respond(w, http.StatusOK, "", summary)
		return
	}

	var buf bytes.Buffer
	if err := interview.RenderReport(&buf, *summary); err != nil {
		writeError(w, h.logger, r, fmt.Errorf("render report %s: %w", summary.SessionID, err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+interview.ReportFilename(summary.SessionID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
