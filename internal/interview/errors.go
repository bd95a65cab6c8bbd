package interview

import "errors"

// Error kinds surfaced to callers. Match them with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrDuplicateAnswer = errors.New("duplicate answer")
)

// Error carries a machine-readable code and a message fit for the candidate.
type Error struct {
	Kind    error
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(code, message string) error {
	return &Error{Kind: ErrValidation, Code: code, Message: message}
}

func forbiddenError(message string) error {
	return &Error{Kind: ErrForbidden, Code: "forbidden", Message: message}
}

func notFoundError(code, message string) error {
	return &Error{Kind: ErrNotFound, Code: code, Message: message}
}

func invalidStateError(code, message string) error {
	return &Error{Kind: ErrInvalidState, Code: code, Message: message}
}

func duplicateAnswerError() error {
	return &Error{
		Kind:    ErrDuplicateAnswer,
		Code:    "already_answered",
		Message: "This question has already been answered",
	}
}

func sessionCompletedError() error {
	return invalidStateError("session_completed", "Interview session is already completed")
}

func sessionBusyError() error {
	return invalidStateError(sessionBusyCode, "Another request for this session is in progress")
}

const sessionBusyCode = "session_busy"

func isSessionBusy(err error) bool {
	var domainErr *Error
	return errors.As(err, &domainErr) && domainErr.Code == sessionBusyCode
}
