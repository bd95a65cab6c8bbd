package handlers

import (
	"errors"
	"net/http"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/utils"

	"go.uber.org/zap"
)

// envelope is the body of every successful interview response.
type envelope struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	utils.JSON(w, status, envelope{Message: message, Data: data})
}

// writeError maps domain errors to HTTP responses. Anything unrecognised is
// logged and reported as an internal error without details.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	var domainErr *interview.Error
	if errors.As(err, &domainErr) {
		utils.JSON(w, statusFor(domainErr.Kind), models.ErrorResponse{
			Code:    domainErr.Code,
			Message: domainErr.Message,
		})
		return
	}

	var errResp *models.ErrorResponse
	if errors.As(err, &errResp) {
		utils.JSON(w, http.StatusBadRequest, *errResp)
		return
	}

	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Code:    "internal_error",
		Message: "An unexpected error occurred",
	})
}

func statusFor(kind error) int {
	switch kind {
	case interview.ErrValidation, interview.ErrDuplicateAnswer:
		return http.StatusBadRequest
	case interview.ErrForbidden:
		return http.StatusForbidden
	case interview.ErrNotFound:
		return http.StatusNotFound
	case interview.ErrInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// callerID returns the authenticated user id. Routes without Authenticate
// never reach a handler that needs it.
func callerID(r *http.Request) string {
	if caller, ok := middleware.CallerFrom(r.Context()); ok {
		return caller.UserID
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
		Code:    "unauthorized",
		Message: "Authentication required",
	})
}
