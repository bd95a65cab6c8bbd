package store

import "errors"

var (
	ErrSessionNotFound   = errors.New("interview session not found")
	ErrSessionNotActive  = errors.New("interview session is not active")
	ErrDuplicateAnswer   = errors.New("question already answered")
	ErrRoleNotFound      = errors.New("role profile not found")
	ErrDuplicateRole     = errors.New("role profile already exists")
	ErrResumeNotFound    = errors.New("resume not found")
	ErrCandidateNotFound = errors.New("candidate profile not found")
)
