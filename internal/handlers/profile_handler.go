package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/store"
	"mockprep/interview/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService captures the profile persistence operations required by
// handlers.
type ProfileService interface {
	ListRoles(ctx context.Context) ([]models.RoleProfile, error)
	CreateRole(ctx context.Context, role *models.RoleProfile) error
	CreateResume(ctx context.Context, resume *models.Resume) error
	LatestResume(ctx context.Context, ownerID string) (*models.Resume, error)
	GetCandidate(ctx context.Context, ownerID string) (*models.Candidate, error)
	UpsertCandidate(ctx context.Context, candidate *models.Candidate) error
}

type ProfileHandler struct {
	profiles   ProfileService
	structures interview.StructureSource
	logger     *zap.Logger
	newID      func() string
	now        func() time.Time
}

func NewProfileHandler(profiles ProfileService, structures interview.StructureSource, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:   profiles,
		structures: structures,
		logger:     logger,
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h *ProfileHandler) ListRolesHandler(w http.ResponseWriter, r *http.Request) {
	roles, err := h.profiles.ListRoles(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if roles == nil {
		roles = []models.RoleProfile{}
	}
	utils.JSON(w, http.StatusOK, models.RoleListResponse{Roles: roles, Count: len(roles)})
}

func (h *ProfileHandler) CreateRoleHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateRoleRequest](r)

	structures := req.InterviewStructures
	if len(structures) == 0 {
		structures = h.structures.DefaultStructure(models.DefaultDifficulty)
	}
	role := &models.RoleProfile{
		ID:                h.newID(),
		RoleName:          req.RoleName,
		Company:           req.Company,
		DomainTags:        nonNilStrings(req.DomainTags),
		SkillExpectations: nonNilStrings(req.SkillExpectations),
		Structures:        structures,
	}

	if err := h.profiles.CreateRole(r.Context(), role); err != nil {
		if errors.Is(err, store.ErrDuplicateRole) {
			utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
				Code:    "duplicate_role",
				Message: "A role profile with this name already exists",
			})
			return
		}
		writeError(w, h.logger, r, err)
		return
	}

	h.logger.Info("role profile created", zap.String("role_id", role.ID), zap.String("role_name", role.RoleName))
	utils.JSON(w, http.StatusCreated, role)
}

func (h *ProfileHandler) CreateResumeHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ResumeRequest](r)
	ownerID := callerID(r)
	if ownerID == "" {
		unauthorized(w)
		return
	}

	resume := &models.Resume{
		ID:              h.newID(),
		OwnerID:         ownerID,
		Skills:          nonNilStrings(req.Skills),
		Projects:        nonNilStrings(req.Projects),
		Education:       nonNilStrings(req.Education),
		Keywords:        nonNilStrings(req.Keywords),
		ExperienceYears: req.ExperienceYears,
		CreatedAt:       h.now(),
	}
	if err := h.profiles.CreateResume(r.Context(), resume); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resume)
}

func (h *ProfileHandler) LatestResumeHandler(w http.ResponseWriter, r *http.Request) {
	resume, err := h.profiles.LatestResume(r.Context(), callerID(r))
	if err != nil {
		if errors.Is(err, store.ErrResumeNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
				Code:    "resume_not_found",
				Message: "No resume uploaded yet",
			})
			return
		}
		writeError(w, h.logger, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, resume)
}

func (h *ProfileHandler) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.profiles.GetCandidate(r.Context(), callerID(r))
	if err != nil {
		if errors.Is(err, store.ErrCandidateNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
				Code:    "candidate_not_found",
				Message: "Candidate profile not found",
			})
			return
		}
		writeError(w, h.logger, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, candidate)
}

func (h *ProfileHandler) PutCandidateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CandidateRequest](r)
	ownerID := callerID(r)
	if ownerID == "" {
		unauthorized(w)
		return
	}

	candidate := &models.Candidate{
		OwnerID:         ownerID,
		Education:       req.Education,
		ExperienceLevel: req.ExperienceLevel,
		ExperienceYears: req.ExperienceYears,
		Domains:         nonNilStrings(req.Domains),
		UpdatedAt:       h.now(),
	}
	if err := h.profiles.UpsertCandidate(r.Context(), candidate); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, candidate)
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
