package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"lms_backend/internals/features/assessments/model"
	"lms_backend/internals/features/assessments/repository"
	"lms_backend/internals/testutil"
)

func seedAssessment(t *testing.T, repo *repository.AssessmentRepository, kind model.Kind, lessonID uuid.UUID) *model.AssessmentModel {
	t.Helper()
	m := &model.AssessmentModel{
		AssessmentLessonID: lessonID,
		AssessmentTitle:    "Bab 1",
		AssessmentMaxScore: 10,
	}
	if err := m.SetQuestions([]model.Question{
		{ID: "q1", Text: "2+2?", Type: model.QuestionTypeMultipleChoice, Options: []string{"3", "4"}, CorrectAnswer: "4", Points: 10},
	}); err != nil {
		t.Fatalf("set questions: %v", err)
	}
	if err := repo.Create(context.Background(), kind, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	return m
}

func TestAssessmentRepository_GetScopedByLesson(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := repository.NewAssessmentRepository(db)
	ctx := context.Background()
	lessonID := uuid.New()

	m := seedAssessment(t, repo, model.Exam, lessonID)

	got, err := repo.GetByID(ctx, model.Exam, lessonID, m.AssessmentID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	qs, err := got.DecodeQuestions()
	if err != nil || len(qs) != 1 || qs[0].CorrectAnswer != "4" {
		t.Fatalf("questions round-trip: %v %+v", err, qs)
	}

	if _, err := repo.GetByID(ctx, model.Exam, uuid.New(), m.AssessmentID); !errors.Is(err, model.ErrAssessmentNotFound) {
		t.Fatalf("other lesson: want not found, got %v", err)
	}
	if _, err := repo.GetByID(ctx, model.Quiz, lessonID, m.AssessmentID); !errors.Is(err, model.ErrAssessmentNotFound) {
		t.Fatalf("other kind table: want not found, got %v", err)
	}
}

func TestAssessmentRepository_DeleteByID(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := repository.NewAssessmentRepository(db)
	ctx := context.Background()
	lessonID := uuid.New()
	m := seedAssessment(t, repo, model.Quiz, lessonID)

	if err := repo.DeleteByID(ctx, model.Quiz, m.AssessmentID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, model.Quiz, lessonID, m.AssessmentID); !errors.Is(err, model.ErrAssessmentNotFound) {
		t.Fatalf("after delete: want not found, got %v", err)
	}
	if err := repo.DeleteByID(ctx, model.Quiz, m.AssessmentID); !errors.Is(err, model.ErrAssessmentNotFound) {
		t.Fatalf("second delete: want not found, got %v", err)
	}
}

func newAttempt(assessmentID, learnerID uuid.UUID, completed time.Time, score float64) *model.AttemptModel {
	a := &model.AttemptModel{
		AttemptAssessmentID: assessmentID,
		AttemptLessonID:     uuid.New(),
		AttemptLearnerID:    learnerID,
		AttemptScore:        score,
		AttemptMaxScore:     10,
		AttemptStartedAt:    completed,
		AttemptCompletedAt:  completed,
	}
	_ = a.SetAnswers([]model.AnswerResult{{QuestionID: "q1", StudentAnswer: "4", Correct: score > 0, Points: score}})
	return a
}

func TestAttemptRepository_LatestCountList(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := repository.NewAttemptRepository(db)
	ctx := context.Background()
	assessmentID, learnerID, other := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	latest, err := repo.FindLatest(ctx, model.Quiz, assessmentID, learnerID)
	if err != nil || latest != nil {
		t.Fatalf("no attempts yet: want nil,nil got %v,%v", latest, err)
	}

	for i, score := range []float64{0, 10, 5} {
		if err := repo.Create(ctx, model.Quiz, newAttempt(assessmentID, learnerID, base.Add(time.Duration(i)*time.Minute), score)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if err := repo.Create(ctx, model.Quiz, newAttempt(assessmentID, other, base.Add(time.Hour), 10)); err != nil {
		t.Fatalf("create other: %v", err)
	}

	n, err := repo.CountFor(ctx, model.Quiz, assessmentID, learnerID)
	if err != nil || n != 3 {
		t.Fatalf("count: want 3, got %d (%v)", n, err)
	}

	latest, err = repo.FindLatest(ctx, model.Quiz, assessmentID, learnerID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.AttemptScore != 5 {
		t.Fatalf("latest should be the third attempt (score 5), got %v", latest.AttemptScore)
	}
	answers, err := latest.DecodeAnswers()
	if err != nil || len(answers) != 1 || answers[0].StudentAnswer != "4" {
		t.Fatalf("answers round-trip: %v %+v", err, answers)
	}

	rows, total, err := repo.List(ctx, model.Quiz, model.AttemptFilter{AssessmentID: assessmentID, LearnerID: &learnerID, Limit: 2})
	if err != nil || total != 3 || len(rows) != 2 {
		t.Fatalf("list mine: total=%d rows=%d err=%v", total, len(rows), err)
	}
	if rows[0].AttemptScore != 5 || rows[1].AttemptScore != 10 {
		t.Fatalf("list order: got %v, %v", rows[0].AttemptScore, rows[1].AttemptScore)
	}

	_, total, err = repo.List(ctx, model.Quiz, model.AttemptFilter{AssessmentID: assessmentID})
	if err != nil || total != 4 {
		t.Fatalf("list all: total=%d err=%v", total, err)
	}

	got, err := repo.GetByID(ctx, model.Quiz, latest.AttemptID)
	if err != nil || got.AttemptID != latest.AttemptID {
		t.Fatalf("get by id: %v", err)
	}
	if _, err := repo.GetByID(ctx, model.Quiz, uuid.New()); !errors.Is(err, model.ErrAttemptNotFound) {
		t.Fatalf("missing attempt: want not found, got %v", err)
	}
}

func TestSessionRepository_BeginIsIdempotent(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := repository.NewSessionRepository(db)
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	repo.Now = func() time.Time { return now }
	ctx := context.Background()
	key := model.SessionKey{Kind: model.Exam.Name, AssessmentID: uuid.New(), LearnerID: uuid.New()}

	first, err := repo.Begin(ctx, key, now, time.Hour)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	second, err := repo.Begin(ctx, key, now.Add(10*time.Minute), time.Hour)
	if err != nil {
		t.Fatalf("begin again: %v", err)
	}
	if !first.Equal(now) || !second.Equal(now) {
		t.Fatalf("start should stay at %v, got %v / %v", now, first, second)
	}

	got, ok, err := repo.Get(ctx, key)
	if err != nil || !ok || !got.Equal(now) {
		t.Fatalf("get: %v %v %v", got, ok, err)
	}

	if err := repo.Clear(ctx, key); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, key); ok {
		t.Fatalf("marker should be gone after clear")
	}
}

func TestSessionRepository_ExpiredMarkers(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := repository.NewSessionRepository(db)
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	repo.Now = func() time.Time { return now }
	ctx := context.Background()
	key := model.SessionKey{Kind: model.Quiz.Name, AssessmentID: uuid.New(), LearnerID: uuid.New()}

	if _, err := repo.Begin(ctx, key, now, 30*time.Minute); err != nil {
		t.Fatalf("begin: %v", err)
	}

	now = now.Add(time.Hour)
	if _, ok, _ := repo.Get(ctx, key); ok {
		t.Fatalf("expired marker should not be returned")
	}

	// restart after expiry records a fresh start
	restarted, err := repo.Begin(ctx, key, now, 30*time.Minute)
	if err != nil || !restarted.Equal(now) {
		t.Fatalf("restart: %v %v", restarted, err)
	}

	now = now.Add(time.Hour)
	repository.RunSessionSweep(ctx, repo)
	var left int64
	db.Model(&model.AttemptSessionModel{}).Count(&left)
	if left != 0 {
		t.Fatalf("sweep should remove expired markers, %d left", left)
	}
}

func TestSessionRepository_MarkerWithoutExpiry(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := repository.NewSessionRepository(db)
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	repo.Now = func() time.Time { return now }
	ctx := context.Background()
	key := model.SessionKey{Kind: model.Exam.Name, AssessmentID: uuid.New(), LearnerID: uuid.New()}

	if _, err := repo.Begin(ctx, key, now, 0); err != nil {
		t.Fatalf("begin: %v", err)
	}

	now = now.Add(30 * 24 * time.Hour)
	repository.RunSessionSweep(ctx, repo)

	got, ok, err := repo.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("marker without expiry should survive the sweep: ok=%v err=%v", ok, err)
	}
	restarted, err := repo.Begin(ctx, key, now, 0)
	if err != nil || !restarted.Equal(got) {
		t.Fatalf("begin must keep the original start: %v %v", restarted, err)
	}

	if err := repo.Clear(ctx, key); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, key); ok {
		t.Fatalf("marker should be gone after clear")
	}
}
