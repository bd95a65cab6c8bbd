package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/utils"
)

type contextKey string

const validatedRequestKey contextKey = "validated_request"

// request bodies above this size are rejected
const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs. Validate may normalize fields in
// place and returns *models.ErrorResponse for client-facing failures.
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into a fresh T, validates it and
// stores it in the request context for GetValidatedRequest. T must be a
// pointer type.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	reqType := reflect.TypeOf((*T)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("middleware: ValidateRequest type parameter must be a pointer, got " + reqType.String())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := reflect.New(reqType.Elem()).Interface().(T)

			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(req); err != nil {
				writeDecodeError(w, err)
				return
			}

			if err := req.Validate(); err != nil {
				var errResp *models.ErrorResponse
				if !errors.As(err, &errResp) {
					errResp = &models.ErrorResponse{Code: "validation_error", Message: err.Error()}
				}
				utils.JSON(w, http.StatusBadRequest, *errResp)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), validatedRequestKey, req)))
		})
	}
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.JSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Code:    "request_too_large",
			Message: "Request body is too large",
		})
		return
	}
	utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
		Code:    "invalid_json",
		Message: "Invalid JSON in request body",
	})
}

// GetValidatedRequest returns the request stored by ValidateRequest.
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
