package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"mockprep/interview/internal/models"
)

// embeds the default interview structures and seed role profiles
//
//go:embed data/*.yaml
var dataFS embed.FS

// RoleSeed is a role profile shipped with the service.
type RoleSeed struct {
	RoleName            string                 `yaml:"roleName"`
	Company             string                 `yaml:"company"`
	DomainTags          []string               `yaml:"domainTags"`
	SkillExpectations   []string               `yaml:"skillExpectations"`
	InterviewStructures models.RoundStructures `yaml:"interviewStructures"`
}

// Catalog holds the static interview data loaded at startup.
type Catalog struct {
	structures map[string]models.RoundStructures // difficulty -> round type -> structure
	roles      []RoleSeed
}

// Load parses the embedded catalog files.
func Load() (*Catalog, error) {
	c := &Catalog{}

	if err := readYAML("data/structures.yaml", &c.structures); err != nil {
		return nil, err
	}
	if err := readYAML("data/roles.yaml", &c.roles); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readYAML(name string, out interface{}) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse catalog file %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	for _, difficulty := range models.DifficultiesList() {
		structure, ok := c.structures[difficulty]
		if !ok {
			return fmt.Errorf("missing default structure for %s", difficulty)
		}
		if err := validateStructure(structure); err != nil {
			return fmt.Errorf("default structure %s: %w", difficulty, err)
		}
	}

	seen := make(map[string]bool, len(c.roles))
	for _, role := range c.roles {
		if role.RoleName == "" {
			return fmt.Errorf("seed role without a name")
		}
		if seen[role.RoleName] {
			return fmt.Errorf("duplicate seed role %s", role.RoleName)
		}
		seen[role.RoleName] = true
		if err := validateStructure(role.InterviewStructures); err != nil {
			return fmt.Errorf("seed role %s: %w", role.RoleName, err)
		}
	}
	return nil
}

func validateStructure(structure models.RoundStructures) error {
	for roundType, s := range structure {
		if !models.ValidRoundTypes[roundType] {
			return fmt.Errorf("unknown round type %s", roundType)
		}
		if s.QuestionCount < 0 || s.QuestionCount > models.MaxQuestionCount {
			return fmt.Errorf("round %s has invalid question count %d", roundType, s.QuestionCount)
		}
	}
	return nil
}

// DefaultStructure returns the default round sizes for a difficulty, falling
// back to the fresher structure for unknown levels.
func (c *Catalog) DefaultStructure(difficulty string) models.RoundStructures {
	if structure, ok := c.structures[difficulty]; ok {
		return structure
	}
	return c.structures[models.DefaultDifficulty]
}

// RoleSeeds returns the shipped role profiles.
func (c *Catalog) RoleSeeds() []RoleSeed {
	out := make([]RoleSeed, len(c.roles))
	copy(out, c.roles)
	return out
}

// ToRoleProfile converts a seed into a persistable role profile.
func (s RoleSeed) ToRoleProfile(id string) models.RoleProfile {
	return models.RoleProfile{
		ID:                id,
		RoleName:          s.RoleName,
		Company:           s.Company,
		DomainTags:        s.DomainTags,
		SkillExpectations: s.SkillExpectations,
		Structures:        s.InterviewStructures,
	}
}

// RoleProfiles converts every seed, assigning ids with newID.
func (c *Catalog) RoleProfiles(newID func() string) []models.RoleProfile {
	profiles := make([]models.RoleProfile, 0, len(c.roles))
	for _, seed := range c.roles {
		profiles = append(profiles, seed.ToRoleProfile(newID()))
	}
	return profiles
}
