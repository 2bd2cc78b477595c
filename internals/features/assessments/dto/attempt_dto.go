package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"lms_backend/internals/features/assessments/model"
)

// SubmitRequest: body POST .../submit. Answers dibiarkan mentah,
// bentuknya divalidasi per Kind di service.
type SubmitRequest struct {
	Answers json.RawMessage `json:"answers"`
}

// QuestionResult: soal + jawaban learner setelah dinilai.
type QuestionResult struct {
	ID            string             `json:"id"`
	Text          string             `json:"text"`
	Type          model.QuestionType `json:"type"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correctAnswer"`
	Points        float64            `json:"points"`
	StudentAnswer any                `json:"studentAnswer"`
	Correct       bool               `json:"correct"`
	PointsAwarded float64            `json:"pointsAwarded"`
}

// JoinResults memasangkan soal dengan hasil per soal (berdasarkan questionId).
func JoinResults(qs []model.Question, results []model.AnswerResult) []QuestionResult {
	byID := make(map[string]model.AnswerResult, len(results))
	for _, r := range results {
		byID[r.QuestionID] = r
	}

	out := make([]QuestionResult, 0, len(qs))
	for _, q := range qs {
		opts := q.Options
		if opts == nil {
			opts = []string{}
		}
		r := byID[q.ID]
		out = append(out, QuestionResult{
			ID:            q.ID,
			Text:          q.Text,
			Type:          q.Type,
			Options:       opts,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			StudentAnswer: r.StudentAnswer,
			Correct:       r.Correct,
			PointsAwarded: r.Points,
		})
	}
	return out
}

type SubmitResponse struct {
	AttemptID      uuid.UUID        `json:"attemptId"`
	Score          float64          `json:"score"`
	MaxScore       float64          `json:"maxScore"`
	CorrectAnswers int              `json:"correctAnswers"`
	TotalQuestions int              `json:"totalQuestions"`
	Questions      []QuestionResult `json:"questions"`
}

// ResultResponse: tampilan hasil attempt (latest atau by id).
type ResultResponse struct {
	AttemptID        uuid.UUID            `json:"attemptId"`
	AssessmentID     uuid.UUID            `json:"assessmentId"`
	Title            string               `json:"title"`
	Description      *string              `json:"description,omitempty"`
	Score            float64              `json:"score"`
	MaxScore         float64              `json:"maxScore"`
	Percentage       float64              `json:"percentage"`
	CorrectAnswers   int                  `json:"correctAnswers"`
	TotalQuestions   int                  `json:"totalQuestions"`
	StartedAt        time.Time            `json:"startedAt"`
	CompletedAt      time.Time            `json:"completedAt"`
	TimeSpentSeconds int64                `json:"timeSpentSeconds"`
	Answers          []model.AnswerResult `json:"answers"`
	Questions        []QuestionResult     `json:"questions"`
}

func NewResultResponse(a *model.AssessmentModel, qs []model.Question, at *model.AttemptModel, answers []model.AnswerResult) ResultResponse {
	return ResultResponse{
		AttemptID:        at.AttemptID,
		AssessmentID:     a.AssessmentID,
		Title:            a.AssessmentTitle,
		Description:      a.AssessmentDescription,
		Score:            at.AttemptScore,
		MaxScore:         at.AttemptMaxScore,
		Percentage:       at.Percentage(),
		CorrectAnswers:   at.AttemptCorrectAnswers,
		TotalQuestions:   at.AttemptTotalQuestions,
		StartedAt:        at.AttemptStartedAt.UTC(),
		CompletedAt:      at.AttemptCompletedAt.UTC(),
		TimeSpentSeconds: int64(at.TimeSpent().Seconds()),
		Answers:          answers,
		Questions:        JoinResults(qs, answers),
	}
}

// AttemptSummary: satu baris di daftar attempt.
type AttemptSummary struct {
	AttemptID      uuid.UUID `json:"attemptId"`
	AssessmentID   uuid.UUID `json:"assessmentId"`
	LearnerID      uuid.UUID `json:"learnerId"`
	Score          float64   `json:"score"`
	MaxScore       float64   `json:"maxScore"`
	Percentage     float64   `json:"percentage"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	StartedAt      time.Time `json:"startedAt"`
	CompletedAt    time.Time `json:"completedAt"`
}

func FromAttemptModels(rows []model.AttemptModel) []AttemptSummary {
	out := make([]AttemptSummary, 0, len(rows))
	for i := range rows {
		a := &rows[i]
		out = append(out, AttemptSummary{
			AttemptID:      a.AttemptID,
			AssessmentID:   a.AttemptAssessmentID,
			LearnerID:      a.AttemptLearnerID,
			Score:          a.AttemptScore,
			MaxScore:       a.AttemptMaxScore,
			Percentage:     a.Percentage(),
			CorrectAnswers: a.AttemptCorrectAnswers,
			TotalQuestions: a.AttemptTotalQuestions,
			StartedAt:      a.AttemptStartedAt.UTC(),
			CompletedAt:    a.AttemptCompletedAt.UTC(),
		})
	}
	return out
}
