package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms_backend/internals/features/assessments/model"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

const latestOrder = "attempt_completed_at DESC, attempt_created_at DESC"

// FindLatest returns (nil, nil) when the learner has no attempt yet.
func (r *AttemptRepository) FindLatest(ctx context.Context, kind model.Kind, assessmentID, learnerID uuid.UUID) (*model.AttemptModel, error) {
	var a model.AttemptModel
	err := r.DB.WithContext(ctx).
		Table(kind.AttemptTable).
		Where("attempt_assessment_id = ? AND attempt_learner_id = ?", assessmentID, learnerID).
		Order(latestOrder).
		Take(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) CountFor(ctx context.Context, kind model.Kind, assessmentID, learnerID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Table(kind.AttemptTable).
		Where("attempt_assessment_id = ? AND attempt_learner_id = ?", assessmentID, learnerID).
		Count(&n).Error
	return n, err
}

// Create is a single insert. Unique violations are returned as-is for the caller to map.
func (r *AttemptRepository) Create(ctx context.Context, kind model.Kind, a *model.AttemptModel) error {
	return r.DB.WithContext(ctx).Table(kind.AttemptTable).Create(a).Error
}

func (r *AttemptRepository) GetByID(ctx context.Context, kind model.Kind, id uuid.UUID) (*model.AttemptModel, error) {
	var a model.AttemptModel
	err := r.DB.WithContext(ctx).
		Table(kind.AttemptTable).
		Where("attempt_id = ?", id).
		Take(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAttemptNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List: newest first, optionally limited to one learner.
func (r *AttemptRepository) List(ctx context.Context, kind model.Kind, f model.AttemptFilter) ([]model.AttemptModel, int64, error) {
	q := r.DB.WithContext(ctx).
		Table(kind.AttemptTable).
		Where("attempt_assessment_id = ?", f.AssessmentID)
	if f.LearnerID != nil {
		q = q.Where("attempt_learner_id = ?", *f.LearnerID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	rows := make([]model.AttemptModel, 0, limit)
	if err := q.Order(latestOrder).Offset(f.Offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
