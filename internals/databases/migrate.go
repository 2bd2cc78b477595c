package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"lms_backend/internals/features/assessments/model"
)

// Migrate membuat tabel assessment/attempt per Kind + attempt_sessions,
// lalu index. Nama index di Postgres global per schema, jadi dibuat manual
// (bukan lewat struct tag) supaya tidak bentrok antar tabel yang berbagi struct.
func Migrate(db *gorm.DB) error {
	for _, k := range model.Kinds {
		if err := db.Table(k.AssessmentTable).AutoMigrate(&model.AssessmentModel{}); err != nil {
			return fmt.Errorf("migrate %s: %w", k.AssessmentTable, err)
		}
		if err := db.Table(k.AttemptTable).AutoMigrate(&model.AttemptModel{}); err != nil {
			return fmt.Errorf("migrate %s: %w", k.AttemptTable, err)
		}
	}
	if err := db.AutoMigrate(&model.AttemptSessionModel{}); err != nil {
		return fmt.Errorf("migrate attempt_sessions: %w", err)
	}

	for _, stmt := range indexStatements() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index: %w (%s)", err, stmt)
		}
	}
	log.Println("[INFO] migrations applied")
	return nil
}

func indexStatements() []string {
	out := make([]string, 0, 8)
	for _, k := range model.Kinds {
		out = append(out,
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_lesson ON %[1]s (assessment_lesson_id)", k.AssessmentTable),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_learner_latest ON %[1]s (attempt_assessment_id, attempt_learner_id, attempt_completed_at)", k.AttemptTable),
		)
		if !k.AllowsRetake {
			// satu attempt per (assessment, learner)
			out = append(out, fmt.Sprintf(
				"CREATE UNIQUE INDEX IF NOT EXISTS uq_%[1]s_assessment_learner ON %[1]s (attempt_assessment_id, attempt_learner_id)",
				k.AttemptTable,
			))
		}
	}
	out = append(out,
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_attempt_sessions_key ON attempt_sessions (session_kind, session_assessment_id, session_learner_id)",
		"CREATE INDEX IF NOT EXISTS idx_attempt_sessions_expires ON attempt_sessions (session_expires_at)",
	)
	return out
}
