package store

import (
	"context"
	"errors"
	"fmt"

	"mockprep/interview/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository stores role profiles, resumes and candidate profiles.
type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) ListRoles(ctx context.Context) ([]models.RoleProfile, error) {
	var roles []models.RoleProfile
	if err := r.DB.WithContext(ctx).Order("role_name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (r *ProfileRepository) GetRoleProfile(ctx context.Context, id string) (*models.RoleProfile, error) {
	var role models.RoleProfile
	err := r.DB.WithContext(ctx).First(&role, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole inserts a role. Role names are unique.
func (r *ProfileRepository) CreateRole(ctx context.Context, role *models.RoleProfile) error {
	err := r.DB.WithContext(ctx).Create(role).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRole
	}
	return err
}

// SeedRoles inserts the roles whose names are not stored yet and returns how
// many were added.
func (r *ProfileRepository) SeedRoles(ctx context.Context, roles []models.RoleProfile) (int, error) {
	if len(roles) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "role_name"}}, DoNothing: true}).
		Create(&roles)
	if res.Error != nil {
		return 0, fmt.Errorf("seed roles: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *ProfileRepository) CreateResume(ctx context.Context, resume *models.Resume) error {
	return r.DB.WithContext(ctx).Create(resume).Error
}

func (r *ProfileRepository) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	var resume models.Resume
	err := r.DB.WithContext(ctx).First(&resume, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResumeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// LatestResume returns the owner's most recently stored resume.
func (r *ProfileRepository) LatestResume(ctx context.Context, ownerID string) (*models.Resume, error) {
	var resume models.Resume
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Take(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResumeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func (r *ProfileRepository) GetCandidate(ctx context.Context, ownerID string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.DB.WithContext(ctx).First(&candidate, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// UpsertCandidate replaces the owner's candidate profile.
func (r *ProfileRepository) UpsertCandidate(ctx context.Context, candidate *models.Candidate) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			UpdateAll: true,
		}).
		Create(candidate).Error
}
