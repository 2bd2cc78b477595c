package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lms_backend/internals/features/assessments/model"
)

// AssessmentStore: gorm repository, atau CatalogCache di depannya.
type AssessmentStore interface {
	GetByID(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID) (*model.AssessmentModel, error)
	Create(ctx context.Context, kind model.Kind, m *model.AssessmentModel) error
	DeleteByID(ctx context.Context, kind model.Kind, id uuid.UUID) error
}

type AttemptStore interface {
	FindLatest(ctx context.Context, kind model.Kind, assessmentID, learnerID uuid.UUID) (*model.AttemptModel, error)
	CountFor(ctx context.Context, kind model.Kind, assessmentID, learnerID uuid.UUID) (int64, error)
	Create(ctx context.Context, kind model.Kind, a *model.AttemptModel) error
	GetByID(ctx context.Context, kind model.Kind, id uuid.UUID) (*model.AttemptModel, error)
	List(ctx context.Context, kind model.Kind, f model.AttemptFilter) ([]model.AttemptModel, int64, error)
}

// SessionStore menyimpan start marker (Redis atau tabel attempt_sessions).
type SessionStore interface {
	Begin(ctx context.Context, key model.SessionKey, startedAt time.Time, ttl time.Duration) (time.Time, error)
	Get(ctx context.Context, key model.SessionKey) (time.Time, bool, error)
	Clear(ctx context.Context, key model.SessionKey) error
}
