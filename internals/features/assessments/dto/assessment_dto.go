// file: internals/features/assessments/dto/assessment_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"lms_backend/internals/features/assessments/model"
)

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

/* ==============================
   CREATE (POST /api/t/lessons/:lesson_id/{kind})
============================== */

type QuestionInput struct {
	ID            string   `json:"id" validate:"omitempty,max=64"`
	Text          string   `json:"text" validate:"required"`
	Type          string   `json:"type" validate:"required,oneof=multiple_choice true_false essay"`
	Options       []string `json:"options" validate:"omitempty,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Points        float64  `json:"points" validate:"gt=0"`
}

type CreateAssessmentRequest struct {
	Title            string          `json:"title" validate:"required,max=255"`
	Description      *string         `json:"description" validate:"omitempty"`
	TimeLimitMinutes *int            `json:"timeLimitMinutes" validate:"omitempty,min=1,max=1440"`
	MaxScore         *float64        `json:"maxScore" validate:"omitempty,gt=0"`
	Questions        []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

func (r *CreateAssessmentRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = trimPtr(r.Description)
	for i := range r.Questions {
		q := &r.Questions[i]
		q.ID = strings.TrimSpace(q.ID)
		q.Text = strings.TrimSpace(q.Text)
		q.Type = strings.ToLower(strings.TrimSpace(q.Type))
	}
}

/* ==============================
   RESPONSES
============================== */

// AssessmentView: catalog untuk learner, tanpa kunci jawaban & poin per soal.
type AssessmentView struct {
	ID               uuid.UUID              `json:"id"`
	LessonID         uuid.UUID              `json:"lessonId"`
	Kind             string                 `json:"kind"`
	Title            string                 `json:"title"`
	Description      *string                `json:"description,omitempty"`
	TimeLimitMinutes *int                   `json:"timeLimitMinutes,omitempty"`
	MaxScore         float64                `json:"maxScore"`
	Questions        []model.PublicQuestion `json:"questions"`
}

func NewAssessmentView(kind model.Kind, m *model.AssessmentModel, qs []model.Question) AssessmentView {
	pub := make([]model.PublicQuestion, 0, len(qs))
	for _, q := range qs {
		pub = append(pub, q.Sanitize())
	}
	return AssessmentView{
		ID:               m.AssessmentID,
		LessonID:         m.AssessmentLessonID,
		Kind:             kind.Name,
		Title:            m.AssessmentTitle,
		Description:      m.AssessmentDescription,
		TimeLimitMinutes: m.AssessmentTimeLimitMinutes,
		MaxScore:         m.AssessmentMaxScore,
		Questions:        pub,
	}
}

// AssessmentDetail: versi authoring, lengkap dengan kunci jawaban.
type AssessmentDetail struct {
	ID               uuid.UUID        `json:"id"`
	LessonID         uuid.UUID        `json:"lessonId"`
	Kind             string           `json:"kind"`
	Title            string           `json:"title"`
	Description      *string          `json:"description,omitempty"`
	TimeLimitMinutes *int             `json:"timeLimitMinutes,omitempty"`
	MaxScore         float64          `json:"maxScore"`
	Questions        []model.Question `json:"questions"`
	CreatedBy        *uuid.UUID       `json:"createdBy,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

func NewAssessmentDetail(kind model.Kind, m *model.AssessmentModel, qs []model.Question) AssessmentDetail {
	return AssessmentDetail{
		ID:               m.AssessmentID,
		LessonID:         m.AssessmentLessonID,
		Kind:             kind.Name,
		Title:            m.AssessmentTitle,
		Description:      m.AssessmentDescription,
		TimeLimitMinutes: m.AssessmentTimeLimitMinutes,
		MaxScore:         m.AssessmentMaxScore,
		Questions:        qs,
		CreatedBy:        m.AssessmentCreatedBy,
		CreatedAt:        m.AssessmentCreatedAt,
	}
}

type StartResponse struct {
	StartedAt        time.Time  `json:"startedAt"`
	ElapsedSeconds   int64      `json:"elapsedSeconds"`
	TimeLimitMinutes *int       `json:"timeLimitMinutes,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	RemainingSeconds *int64     `json:"remainingSeconds,omitempty"`
}
