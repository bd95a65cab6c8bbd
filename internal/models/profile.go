package models

import "time"

// RoundStructure is the configured size of one round for a role.
type RoundStructure struct {
	QuestionCount int    `json:"questionCount" yaml:"questionCount"`
	Difficulty    string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// RoundStructures maps a round type to its structure.
type RoundStructures map[string]RoundStructure

// RoleProfile describes a target role the candidate practices for.
type RoleProfile struct {
	ID                string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RoleName          string          `gorm:"uniqueIndex;not null" json:"roleName"`
	Company           string          `json:"company"`
	DomainTags        []string        `gorm:"serializer:json;type:text" json:"domainTags"`
	SkillExpectations []string        `gorm:"serializer:json;type:text" json:"skillExpectations"`
	Structures        RoundStructures `gorm:"serializer:json;type:text" json:"interviewStructures"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Resume holds the already-parsed resume fields used as question context.
type Resume struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID         string    `gorm:"not null;index" json:"ownerId"`
	Skills          []string  `gorm:"serializer:json;type:text" json:"skills"`
	Projects        []string  `gorm:"serializer:json;type:text" json:"projects"`
	Education       []string  `gorm:"serializer:json;type:text" json:"education"`
	Keywords        []string  `gorm:"serializer:json;type:text" json:"keywords"`
	ExperienceYears int       `json:"experienceYears"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Education struct {
	Degree      string `json:"degree"`
	College     string `json:"college"`
	PassingYear int    `json:"passingYear"`
}

// Candidate is the interview-relevant part of a user's profile.
type Candidate struct {
	OwnerID         string    `gorm:"primaryKey;type:varchar(64)" json:"ownerId"`
	Education       Education `gorm:"embedded;embeddedPrefix:education_" json:"education"`
	ExperienceLevel string    `json:"experienceLevel"`
	ExperienceYears int       `json:"experienceYears"`
	Domains         []string  `gorm:"serializer:json;type:text" json:"domains"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AllModels lists every persisted model, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&RoleProfile{},
		&Resume{},
		&Candidate{},
		&InterviewSession{},
		&InterviewRound{},
		&InterviewQuestion{},
		&InterviewAnswer{},
	}
}
