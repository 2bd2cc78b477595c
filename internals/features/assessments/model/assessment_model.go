// file: internals/features/assessments/model/assessment_model.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeEssay          QuestionType = "essay"
)

// IsChoice: tipe yang jawabannya harus salah satu dari options
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeTrueFalse
}

// Question disimpan embedded di dokumen questions (JSONB), bukan tabel terpisah.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	Points        float64      `json:"points"`
}

// PublicQuestion: bentuk yang aman dikirim ke learner sebelum submit
type PublicQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options"`
}

func (q Question) Sanitize() PublicQuestion {
	opts := q.Options
	if opts == nil {
		opts = []string{}
	}
	return PublicQuestion{ID: q.ID, Text: q.Text, Type: q.Type, Options: opts}
}

// AssessmentModel dipakai untuk tabel quizzes maupun exams (lihat Kind).
type AssessmentModel struct {
	AssessmentID               uuid.UUID      `gorm:"column:assessment_id;type:uuid;primaryKey" json:"assessment_id"`
	AssessmentLessonID         uuid.UUID      `gorm:"column:assessment_lesson_id;type:uuid;not null" json:"assessment_lesson_id"`
	AssessmentTitle            string         `gorm:"column:assessment_title;type:varchar(255);not null" json:"assessment_title"`
	AssessmentDescription      *string        `gorm:"column:assessment_description;type:text" json:"assessment_description,omitempty"`
	AssessmentTimeLimitMinutes *int           `gorm:"column:assessment_time_limit_minutes" json:"assessment_time_limit_minutes,omitempty"`
	AssessmentMaxScore         float64        `gorm:"column:assessment_max_score;type:numeric(8,2);not null;default:0" json:"assessment_max_score"`
	AssessmentQuestions        datatypes.JSON `gorm:"column:assessment_questions;type:jsonb;not null" json:"assessment_questions"`
	AssessmentCreatedBy        *uuid.UUID     `gorm:"column:assessment_created_by;type:uuid" json:"assessment_created_by,omitempty"`

	AssessmentCreatedAt time.Time      `gorm:"column:assessment_created_at;autoCreateTime" json:"assessment_created_at"`
	AssessmentUpdatedAt time.Time      `gorm:"column:assessment_updated_at;autoUpdateTime" json:"assessment_updated_at"`
	AssessmentDeletedAt gorm.DeletedAt `gorm:"column:assessment_deleted_at" json:"-"`
}

func (m *AssessmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssessmentID == uuid.Nil {
		m.AssessmentID = uuid.New()
	}
	return nil
}

// DecodeQuestions membaca dokumen questions.
func (m *AssessmentModel) DecodeQuestions() ([]Question, error) {
	if len(m.AssessmentQuestions) == 0 {
		return []Question{}, nil
	}
	var qs []Question
	if err := json.Unmarshal(m.AssessmentQuestions, &qs); err != nil {
		return nil, fmt.Errorf("invalid assessment_questions json: %w", err)
	}
	return qs, nil
}

func (m *AssessmentModel) SetQuestions(qs []Question) error {
	if qs == nil {
		qs = []Question{}
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment_questions: %w", err)
	}
	m.AssessmentQuestions = datatypes.JSON(b)
	return nil
}

// TimeLimit mengembalikan 0 kalau tidak ada batas waktu.
func (m *AssessmentModel) TimeLimit() time.Duration {
	if m.AssessmentTimeLimitMinutes == nil || *m.AssessmentTimeLimitMinutes <= 0 {
		return 0
	}
	return time.Duration(*m.AssessmentTimeLimitMinutes) * time.Minute
}

// SumPoints = total poin semua soal
func SumPoints(qs []Question) float64 {
	var total float64
	for _, q := range qs {
		total += q.Points
	}
	return total
}
