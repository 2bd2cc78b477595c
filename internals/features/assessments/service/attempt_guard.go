package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"lms_backend/internals/features/assessments/model"
)

type attemptCounter interface {
	CountFor(ctx context.Context, kind model.Kind, assessmentID, learnerID uuid.UUID) (int64, error)
}

// AttemptGuard menolak attempt kedua untuk Kind yang tidak boleh retake.
// Ini hanya jalur cepat untuk pesan yang ramah; jaminannya ada di unique index
// exam_attempts(attempt_assessment_id, attempt_learner_id).
type AttemptGuard struct {
	Attempts attemptCounter
}

func NewAttemptGuard(attempts attemptCounter) *AttemptGuard {
	return &AttemptGuard{Attempts: attempts}
}

func (g *AttemptGuard) Check(ctx context.Context, kind model.Kind, assessmentID, learnerID uuid.UUID) error {
	if kind.AllowsRetake {
		return nil
	}
	n, err := g.Attempts.CountFor(ctx, kind, assessmentID, learnerID)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}
	if n > 0 {
		return model.ErrAlreadyTaken
	}
	return nil
}
