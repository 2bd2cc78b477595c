package assessments_test

import (
	"os"
	"path/filepath"
	"testing"

	"lms_backend/internals/features/assessments/model"
	assessments "lms_backend/internals/seeds/assessments"
	"lms_backend/internals/testutil"
)

func TestSeedAssessmentsFromJSON(t *testing.T) {
	db := testutil.NewSQLite(t)

	for _, kind := range model.Kinds {
		path := "data_" + kind.Plural + ".json"
		n, err := assessments.SeedAssessmentsFromJSON(db, kind, path)
		if err != nil || n != 1 {
			t.Fatalf("%s: inserted=%d err=%v", kind.Plural, n, err)
		}
		// second run is a no-op
		n, err = assessments.SeedAssessmentsFromJSON(db, kind, path)
		if err != nil || n != 0 {
			t.Fatalf("%s rerun: inserted=%d err=%v", kind.Plural, n, err)
		}
	}

	var exam model.AssessmentModel
	if err := db.Table(model.Exam.AssessmentTable).First(&exam).Error; err != nil {
		t.Fatalf("load exam: %v", err)
	}
	if exam.AssessmentMaxScore != 25 {
		t.Fatalf("max score should be the sum of points, got %v", exam.AssessmentMaxScore)
	}
}

func TestSeedAssessmentsFromJSON_RejectsInvalid(t *testing.T) {
	db := testutil.NewSQLite(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	body := `[{"lesson_id":"6f1c2d3e-0000-4a1b-9c8d-000000000009","title":"Bad","questions":[{"text":"x","type":"essay","correctAnswer":"y","points":1}]}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := assessments.SeedAssessmentsFromJSON(db, model.Quiz, path); err == nil {
		t.Fatalf("essay in a quiz should be rejected")
	}
	if n, err := assessments.SeedAssessmentsFromJSON(db, model.Quiz, filepath.Join(t.TempDir(), "missing.json")); err != nil || n != 0 {
		t.Fatalf("missing file should be skipped: n=%d err=%v", n, err)
	}
}
