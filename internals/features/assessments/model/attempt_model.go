package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerResult is one entry of an attempt's answers snapshot.
// StudentAnswer is whatever the learner sent (string, bool, number, null...).
type AnswerResult struct {
	QuestionID    string  `json:"questionId"`
	StudentAnswer any     `json:"studentAnswer"`
	Correct       bool    `json:"correct"`
	Points        float64 `json:"points"`
}

/*
=========================================================

	ATTEMPT
	1 row = 1 submission (quiz_attempts / exam_attempts)
	- exam_attempts punya unique index (assessment_id, learner_id)
	- quiz_attempts boleh banyak per learner (retake)

=========================================================
*/
type AttemptModel struct {
	AttemptID             uuid.UUID      `gorm:"column:attempt_id;type:uuid;primaryKey" json:"attempt_id"`
	AttemptAssessmentID   uuid.UUID      `gorm:"column:attempt_assessment_id;type:uuid;not null" json:"attempt_assessment_id"`
	AttemptLessonID       uuid.UUID      `gorm:"column:attempt_lesson_id;type:uuid;not null" json:"attempt_lesson_id"`
	AttemptLearnerID      uuid.UUID      `gorm:"column:attempt_learner_id;type:uuid;not null" json:"attempt_learner_id"`
	AttemptScore          float64        `gorm:"column:attempt_score;type:numeric(8,2);not null;default:0" json:"attempt_score"`
	AttemptMaxScore       float64        `gorm:"column:attempt_max_score;type:numeric(8,2);not null;default:0" json:"attempt_max_score"`
	AttemptCorrectAnswers int            `gorm:"column:attempt_correct_answers;not null;default:0" json:"attempt_correct_answers"`
	AttemptTotalQuestions int            `gorm:"column:attempt_total_questions;not null;default:0" json:"attempt_total_questions"`
	AttemptAnswers        datatypes.JSON `gorm:"column:attempt_answers;type:jsonb;not null" json:"attempt_answers"`

	AttemptStartedAt   time.Time `gorm:"column:attempt_started_at;not null" json:"attempt_started_at"`
	AttemptCompletedAt time.Time `gorm:"column:attempt_completed_at;not null" json:"attempt_completed_at"`
	AttemptCreatedAt   time.Time `gorm:"column:attempt_created_at;autoCreateTime" json:"attempt_created_at"`
}

func (m *AttemptModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttemptID == uuid.Nil {
		m.AttemptID = uuid.New()
	}
	return nil
}

func (m *AttemptModel) DecodeAnswers() ([]AnswerResult, error) {
	if len(m.AttemptAnswers) == 0 {
		return []AnswerResult{}, nil
	}
	var out []AnswerResult
	if err := json.Unmarshal(m.AttemptAnswers, &out); err != nil {
		return nil, fmt.Errorf("invalid attempt_answers json: %w", err)
	}
	return out, nil
}

func (m *AttemptModel) SetAnswers(items []AnswerResult) error {
	if items == nil {
		items = []AnswerResult{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt_answers: %w", err)
	}
	m.AttemptAnswers = datatypes.JSON(b)
	return nil
}

// TimeSpent is completed - started, never negative.
func (m *AttemptModel) TimeSpent() time.Duration {
	d := m.AttemptCompletedAt.Sub(m.AttemptStartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Percentage of max score, 0 when max score is 0.
func (m *AttemptModel) Percentage() float64 {
	if m.AttemptMaxScore <= 0 {
		return 0
	}
	return (m.AttemptScore / m.AttemptMaxScore) * 100.0
}

// AttemptFilter drives the paginated attempt listings.
type AttemptFilter struct {
	AssessmentID uuid.UUID
	LearnerID    *uuid.UUID
	Offset       int
	Limit        int
}
