package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms_backend/internals/features/assessments/model"
)

// AssessmentRepository: quizzes & exams lewat satu struct, tabel dipilih dari Kind.
type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

// GetByID hanya menemukan assessment yang memang milik lessonID.
func (r *AssessmentRepository) GetByID(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID) (*model.AssessmentModel, error) {
	var m model.AssessmentModel
	err := r.DB.WithContext(ctx).
		Table(kind.AssessmentTable).
		Where("assessment_id = ? AND assessment_lesson_id = ?", id, lessonID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAssessmentNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *AssessmentRepository) Create(ctx context.Context, kind model.Kind, m *model.AssessmentModel) error {
	return r.DB.WithContext(ctx).Table(kind.AssessmentTable).Create(m).Error
}

// DeleteByID: soft delete. ErrAssessmentNotFound kalau tidak ada baris yang kena.
func (r *AssessmentRepository) DeleteByID(ctx context.Context, kind model.Kind, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Table(kind.AssessmentTable).
		Where("assessment_id = ?", id).
		Delete(&model.AssessmentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrAssessmentNotFound
	}
	return nil
}
