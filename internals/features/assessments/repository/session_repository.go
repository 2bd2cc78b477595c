package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lms_backend/internals/features/assessments/model"
)

// SessionRepository menyimpan start marker di tabel attempt_sessions.
// Dipakai kalau Redis tidak dikonfigurasi.
type SessionRepository struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db, Now: time.Now}
}

// Begin is idempotent: the first recorded start wins and is returned.
// ttl <= 0 stores a marker without expiry.
func (r *SessionRepository) Begin(ctx context.Context, key model.SessionKey, startedAt time.Time, ttl time.Duration) (time.Time, error) {
	row := model.AttemptSessionModel{
		SessionKind:         key.Kind,
		SessionAssessmentID: key.AssessmentID,
		SessionLearnerID:    key.LearnerID,
		SessionStartedAt:    startedAt.UTC(),
	}
	if ttl > 0 {
		expiresAt := startedAt.UTC().Add(ttl)
		row.SessionExpiresAt = &expiresAt
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// marker basi (sudah expired tapi belum disapu cron) dibuang dulu
		if err := tx.Where(keyWhere, key.Kind, key.AssessmentID, key.LearnerID).
			Where(expiredWhere, r.Now().UTC()).
			Delete(&model.AttemptSessionModel{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	})
	if err != nil {
		return time.Time{}, err
	}

	started, ok, err := r.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return startedAt.UTC(), nil
	}
	return started, nil
}

func (r *SessionRepository) Get(ctx context.Context, key model.SessionKey) (time.Time, bool, error) {
	var row model.AttemptSessionModel
	err := r.DB.WithContext(ctx).
		Where(keyWhere, key.Kind, key.AssessmentID, key.LearnerID).
		Where("(session_expires_at IS NULL OR session_expires_at > ?)", r.Now().UTC()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return row.SessionStartedAt.UTC(), true, nil
}

func (r *SessionRepository) Clear(ctx context.Context, key model.SessionKey) error {
	return r.DB.WithContext(ctx).
		Where(keyWhere, key.Kind, key.AssessmentID, key.LearnerID).
		Delete(&model.AttemptSessionModel{}).Error
}

// SweepExpired menghapus marker yang sudah lewat expires_at (marker tanpa expiry dibiarkan).
func (r *SessionRepository) SweepExpired(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where(expiredWhere, r.Now().UTC()).
		Delete(&model.AttemptSessionModel{})
	return res.RowsAffected, res.Error
}

const (
	keyWhere     = "session_kind = ? AND session_assessment_id = ? AND session_learner_id = ?"
	expiredWhere = "session_expires_at IS NOT NULL AND session_expires_at <= ?"
)
