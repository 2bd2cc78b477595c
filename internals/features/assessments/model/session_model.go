package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptSessionModel menyimpan waktu mulai learner (start marker) untuk jam ujian.
// unique (session_kind, session_assessment_id, session_learner_id) dibuat di migrasi.
// SessionExpiresAt nil: marker tidak kedaluwarsa, hanya dihapus saat submit.
type AttemptSessionModel struct {
	SessionID           uuid.UUID `gorm:"column:session_id;type:uuid;primaryKey" json:"session_id"`
	SessionKind         string    `gorm:"column:session_kind;type:varchar(16);not null" json:"session_kind"`
	SessionAssessmentID uuid.UUID `gorm:"column:session_assessment_id;type:uuid;not null" json:"session_assessment_id"`
	SessionLearnerID    uuid.UUID `gorm:"column:session_learner_id;type:uuid;not null" json:"session_learner_id"`
	SessionStartedAt    time.Time `gorm:"column:session_started_at;not null" json:"session_started_at"`
	SessionExpiresAt    *time.Time `gorm:"column:session_expires_at" json:"session_expires_at,omitempty"`
}

func (AttemptSessionModel) TableName() string { return "attempt_sessions" }

func (m *AttemptSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SessionID == uuid.Nil {
		m.SessionID = uuid.New()
	}
	return nil
}

// SessionKey identifies one learner's run at one assessment.
type SessionKey struct {
	Kind         string
	AssessmentID uuid.UUID
	LearnerID    uuid.UUID
}

func (k SessionKey) String() string {
	return fmt.Sprintf("attempt_session:%s:%s:%s", k.Kind, k.AssessmentID, k.LearnerID)
}
