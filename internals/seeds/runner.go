package seeds

import (
	"log"
	"path/filepath"

	"gorm.io/gorm"

	"lms_backend/internals/features/assessments/model"
	assessments "lms_backend/internals/seeds/assessments"
)

// RunAllSeeds mengisi quiz & exam contoh dari dir (default internals/seeds/assessments).
func RunAllSeeds(db *gorm.DB, dir string) error {
	if dir == "" {
		dir = "internals/seeds/assessments"
	}

	//* Assessments
	for _, kind := range model.Kinds {
		path := filepath.Join(dir, "data_"+kind.Plural+".json")
		n, err := assessments.SeedAssessmentsFromJSON(db, kind, path)
		if err != nil {
			return err
		}
		log.Printf("[SEED] %s: %d inserted", kind.Plural, n)
	}
	return nil
}
