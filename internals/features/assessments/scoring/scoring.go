// file: internals/features/assessments/scoring/scoring.go
package scoring

import (
	"lms_backend/internals/features/assessments/model"
)

/* =========================================================
   OUTCOME
========================================================= */

// Outcome is the result of scoring one submission.
type Outcome struct {
	Score          float64
	CorrectAnswers int
	TotalQuestions int
	Results        []model.AnswerResult
}

// Score menilai jawaban terhadap soal. Fungsi murni, tanpa IO.
//   - benar hanya kalau jawaban berupa string yang sama persis (case-sensitive)
//     dengan correctAnswer
//   - soal yang tidak dijawab => studentAnswer nil, 0 poin
//   - id jawaban yang tidak ada di soal diabaikan
func Score(questions []model.Question, answers map[string]any) Outcome {
	out := Outcome{
		TotalQuestions: len(questions),
		Results:        make([]model.AnswerResult, 0, len(questions)),
	}

	for _, q := range questions {
		submitted, ok := answers[q.ID]
		if !ok {
			submitted = nil
		}

		correct := IsCorrect(q, submitted)
		item := model.AnswerResult{
			QuestionID:    q.ID,
			StudentAnswer: submitted,
			Correct:       correct,
		}
		if correct {
			item.Points = q.Points
			out.Score += q.Points
			out.CorrectAnswers++
		}
		out.Results = append(out.Results, item)
	}

	return out
}

// IsCorrect compares one submitted value against a question's key.
func IsCorrect(q model.Question, submitted any) bool {
	s, ok := submitted.(string)
	if !ok {
		return false
	}
	return s == q.CorrectAnswer
}
