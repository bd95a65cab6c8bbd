package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mockprep/interview/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// withTree preloads rounds, questions and answers in their stored order.
func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Rounds.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Rounds.Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// CreateSession stores the session with all of its rounds and questions in
// one transaction.
func (r *SessionRepository) CreateSession(ctx context.Context, session *models.InterviewSession) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
}

func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := withTree(r.DB.WithContext(ctx)).First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// InsertAnswer appends an answer and bumps the session's updatedAt in one
// transaction. The session must still be active and the question must not
// have been answered before.
func (r *SessionRepository) InsertAnswer(ctx context.Context, answer *models.InterviewAnswer) error {
	db := r.DB.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.InterviewSession{}).
			Where("id = ? AND status = ?", answer.SessionID, models.StatusActive).
			Update("updated_at", answer.SubmittedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.InterviewSession{}).Where("id = ?", answer.SessionID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrSessionNotFound
			}
			return ErrSessionNotActive
		}

		if err := tx.Create(answer).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateAnswer
			}
			return err
		}
		return nil
	})

	switch {
	case err == nil,
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionNotActive),
		errors.Is(err, ErrDuplicateAnswer):
		return err
	}

	// some drivers report unique violations untranslated
	if exists, lookupErr := r.answerExists(ctx, answer); lookupErr == nil && exists {
		return ErrDuplicateAnswer
	}
	return fmt.Errorf("insert answer: %w", err)
}

func (r *SessionRepository) answerExists(ctx context.Context, answer *models.InterviewAnswer) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.InterviewAnswer{}).
		Where("session_id = ? AND round_type = ? AND question_id = ?", answer.SessionID, answer.RoundType, answer.QuestionID).
		Count(&count).Error
	return count > 0, err
}

// MarkCompleted moves the session to completed. It reports false when the
// session was already completed, so exactly one caller observes the
// transition.
func (r *SessionRepository) MarkCompleted(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.InterviewSession{}).
		Where("id = ? AND status <> ?", sessionID, models.StatusCompleted).
		Updates(map[string]interface{}{
			"status":     models.StatusCompleted,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark session completed: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := db.Model(&models.InterviewSession{}).Where("id = ?", sessionID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrSessionNotFound
	}
	return false, nil
}

// ListSessionsByOwner returns the owner's most recent sessions first.
func (r *SessionRepository) ListSessionsByOwner(ctx context.Context, ownerID string, limit int) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := withTree(r.DB.WithContext(ctx)).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) CountSessions(ctx context.Context) (*models.AdminStatsResponse, error) {
	db := r.DB.WithContext(ctx)
	stats := &models.AdminStatsResponse{}

	if err := db.Model(&models.InterviewSession{}).Count(&stats.TotalSessions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.InterviewSession{}).Where("status = ?", models.StatusActive).Count(&stats.ActiveSessions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.InterviewSession{}).Where("status = ?", models.StatusCompleted).Count(&stats.CompletedSessions).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ListCompletedUnexported returns completed sessions the export job has not
// written yet, oldest completion first.
func (r *SessionRepository) ListCompletedUnexported(ctx context.Context, limit int) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := withTree(r.DB.WithContext(ctx)).
		Where("status = ? AND exported_at IS NULL", models.StatusCompleted).
		Order("updated_at ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list unexported sessions: %w", err)
	}
	return sessions, nil
}

// MarkExported stamps exported_at without touching updated_at, which is the
// session's completion instant.
func (r *SessionRepository) MarkExported(ctx context.Context, sessionIDs []string, at time.Time) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&models.InterviewSession{}).
		Where("id IN ?", sessionIDs).
		UpdateColumn("exported_at", at).Error
}
