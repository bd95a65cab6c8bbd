package models

import (
	"fmt"
	"strings"

	"mockprep/interview/internal/utils"
)

const MinAnswerLength = 10

type CreateSessionRequest struct {
	Mode           string         `json:"mode"`
	RoleProfileID  string         `json:"roleProfileId"`
	ResumeID       string         `json:"resumeId,omitempty"`
	EnabledRounds  []string       `json:"enabledRounds,omitempty"`
	QuestionCounts map[string]int `json:"questionCounts,omitempty"`
	Difficulty     string         `json:"difficulty,omitempty"`
	Proctored      bool           `json:"proctored"`
}

// implements the Validator interface
func (r *CreateSessionRequest) Validate() error {
	r.Mode = utils.NormalizeKey(r.Mode)
	if r.Mode == "" {
		return &ErrorResponse{
			Code:    "missing_mode",
			Message: "Mode field is required",
		}
	}
	if !ValidModes[r.Mode] {
		return &ErrorResponse{
			Code:    "invalid_mode",
			Message: "Mode must be one of: " + strings.Join(ValidModesList(), ", "),
		}
	}

	if strings.TrimSpace(r.RoleProfileID) == "" {
		return &ErrorResponse{
			Code:    "missing_role_profile",
			Message: "Role profile ID is required",
		}
	}

	var details []ValidationErrorDetail
	for roundType, count := range r.QuestionCounts {
		if !ValidRoundTypes[roundType] {
			details = append(details, ValidationErrorDetail{
				Field:  "questionCounts." + roundType,
				Reason: "unknown round type",
			})
			continue
		}
		if count < 0 {
			details = append(details, ValidationErrorDetail{
				Field:  "questionCounts." + roundType,
				Reason: "must not be negative",
			})
		}
	}
	if len(details) > 0 {
		return &ErrorResponse{
			Code:    "invalid_question_counts",
			Message: "Question counts are invalid",
			Details: details,
		}
	}

	return nil
}

type SubmitAnswerRequest struct {
	QuestionID       string `json:"questionId"`
	AnswerText       string `json:"answerText"`
	TimeSpentSeconds *int   `json:"timeSpentSeconds,omitempty"`
}

// implements the Validator interface
func (r *SubmitAnswerRequest) Validate() error {
	r.QuestionID = strings.TrimSpace(r.QuestionID)
	if r.QuestionID == "" {
		return &ErrorResponse{
			Code:    "missing_question_id",
			Message: "Question ID is required",
		}
	}

	r.AnswerText = strings.TrimSpace(r.AnswerText)
	if r.AnswerText == "" {
		return &ErrorResponse{
			Code:    "missing_answer",
			Message: "Answer text is required",
		}
	}
	if len([]rune(r.AnswerText)) < MinAnswerLength {
		return &ErrorResponse{
			Code:    "answer_too_short",
			Message: fmt.Sprintf("Answer must be at least %d characters", MinAnswerLength),
		}
	}

	if r.TimeSpentSeconds != nil && *r.TimeSpentSeconds < 0 {
		return &ErrorResponse{
			Code:    "invalid_time_spent",
			Message: "Time spent must be a non-negative integer",
		}
	}

	return nil
}

// TimeSpent returns the reported time, treating a missing value as zero.
func (r *SubmitAnswerRequest) TimeSpent() int {
	if r.TimeSpentSeconds == nil {
		return 0
	}
	return *r.TimeSpentSeconds
}

type CreateRoleRequest struct {
	RoleName            string          `json:"roleName"`
	Company             string          `json:"company,omitempty"`
	DomainTags          []string        `json:"domainTags,omitempty"`
	SkillExpectations   []string        `json:"skillExpectations,omitempty"`
	InterviewStructures RoundStructures `json:"interviewStructures,omitempty"`
}

// implements the Validator interface
func (r *CreateRoleRequest) Validate() error {
	r.RoleName = strings.TrimSpace(r.RoleName)
	if r.RoleName == "" {
		return &ErrorResponse{
			Code:    "missing_role_name",
			Message: "Role name is required",
		}
	}

	var details []ValidationErrorDetail
	for roundType, structure := range r.InterviewStructures {
		if !ValidRoundTypes[roundType] {
			details = append(details, ValidationErrorDetail{
				Field:  "interviewStructures." + roundType,
				Reason: "unknown round type",
			})
			continue
		}
		if structure.QuestionCount < 0 || structure.QuestionCount > MaxQuestionCount {
			details = append(details, ValidationErrorDetail{
				Field:  "interviewStructures." + roundType + ".questionCount",
				Reason: fmt.Sprintf("must be between 0 and %d", MaxQuestionCount),
			})
		}
	}
	if len(details) > 0 {
		return &ErrorResponse{
			Code:    "invalid_interview_structures",
			Message: "Interview structures are invalid",
			Details: details,
		}
	}

	return nil
}

type ResumeRequest struct {
	Skills          []string `json:"skills"`
	Projects        []string `json:"projects"`
	Education       []string `json:"education"`
	Keywords        []string `json:"keywords"`
	ExperienceYears int      `json:"experienceYears"`
}

// implements the Validator interface
func (r *ResumeRequest) Validate() error {
	if len(r.Skills) == 0 && len(r.Projects) == 0 && len(r.Keywords) == 0 {
		return &ErrorResponse{
			Code:    "empty_resume",
			Message: "Resume must include skills, projects or keywords",
		}
	}
	if r.ExperienceYears < 0 || r.ExperienceYears > 60 {
		return &ErrorResponse{
			Code:    "invalid_experience_years",
			Message: "Experience years must be between 0 and 60",
		}
	}
	return nil
}

type CandidateRequest struct {
	Education       Education `json:"education"`
	ExperienceLevel string    `json:"experienceLevel"`
	ExperienceYears int       `json:"experienceYears"`
	Domains         []string  `json:"domains"`
}

// implements the Validator interface
func (r *CandidateRequest) Validate() error {
	if r.ExperienceLevel == "" {
		r.ExperienceLevel = "fresher"
	}
	if !ValidExperienceLevels[r.ExperienceLevel] {
		return &ErrorResponse{
			Code:    "invalid_experience_level",
			Message: "Experience level must be one of: fresher, experienced",
		}
	}
	if r.ExperienceYears < 0 {
		return &ErrorResponse{
			Code:    "invalid_experience_years",
			Message: "Experience years must not be negative",
		}
	}
	return nil
}
