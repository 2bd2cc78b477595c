package database_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/assessments/model"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/testutil"
)

func TestMigrate_CreatesTablesPerKind(t *testing.T) {
	db := testutil.NewSQLite(t)

	for _, k := range model.Kinds {
		for _, table := range []string{k.AssessmentTable, k.AttemptTable} {
			if !db.Migrator().HasTable(table) {
				t.Fatalf("table %s missing", table)
			}
		}
	}
	if !db.Migrator().HasTable("attempt_sessions") {
		t.Fatalf("attempt_sessions missing")
	}

	// idempotent
	if err := database.Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func newAttempt(assessmentID, learnerID uuid.UUID) *model.AttemptModel {
	now := time.Now().UTC()
	a := &model.AttemptModel{
		AttemptAssessmentID: assessmentID,
		AttemptLessonID:     uuid.New(),
		AttemptLearnerID:    learnerID,
		AttemptStartedAt:    now,
		AttemptCompletedAt:  now,
	}
	_ = a.SetAnswers(nil)
	return a
}

func TestMigrate_ExamAttemptsAreUniquePerLearner(t *testing.T) {
	db := testutil.NewSQLite(t)
	assessmentID, learnerID := uuid.New(), uuid.New()

	if err := db.Table(model.Exam.AttemptTable).Create(newAttempt(assessmentID, learnerID)).Error; err != nil {
		t.Fatalf("first exam attempt: %v", err)
	}
	err := db.Table(model.Exam.AttemptTable).Create(newAttempt(assessmentID, learnerID)).Error
	if !helper.IsUniqueViolation(err) {
		t.Fatalf("second exam attempt: want unique violation, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := db.Table(model.Quiz.AttemptTable).Create(newAttempt(assessmentID, learnerID)).Error; err != nil {
			t.Fatalf("quiz attempt %d: %v", i, err)
		}
	}
}
