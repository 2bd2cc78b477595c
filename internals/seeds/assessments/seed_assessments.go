package assessments

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms_backend/internals/features/assessments/dto"
	"lms_backend/internals/features/assessments/model"
	"lms_backend/internals/features/assessments/service"
)

type AssessmentSeed struct {
	LessonID uuid.UUID `json:"lesson_id"`
	dto.CreateAssessmentRequest
}

// SeedAssessmentsFromJSON insert assessment yang belum ada (lesson + title).
// Soal divalidasi dengan aturan yang sama seperti endpoint authoring.
func SeedAssessmentsFromJSON(db *gorm.DB, kind model.Kind, filePath string) (int, error) {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("ℹ️ %s tidak ada, lewati...", filePath)
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", filePath, err)
	}

	var seeds []AssessmentSeed
	if err := sonic.Unmarshal(file, &seeds); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	inserted := 0
	for i := range seeds {
		seed := &seeds[i]
		seed.Normalize()

		var count int64
		if err := db.Table(kind.AssessmentTable).
			Where("assessment_lesson_id = ? AND assessment_title = ?", seed.LessonID, seed.Title).
			Count(&count).Error; err != nil {
			return inserted, err
		}
		if count > 0 {
			log.Printf("ℹ️ %s '%s' sudah ada, lewati...", kind.Name, seed.Title)
			continue
		}

		qs, maxScore, err := service.BuildQuestions(kind, seed.CreateAssessmentRequest)
		if err != nil {
			return inserted, fmt.Errorf("%s '%s': %w", kind.Name, seed.Title, err)
		}

		m := &model.AssessmentModel{
			AssessmentLessonID:         seed.LessonID,
			AssessmentTitle:            seed.Title,
			AssessmentDescription:      seed.Description,
			AssessmentTimeLimitMinutes: seed.TimeLimitMinutes,
			AssessmentMaxScore:         maxScore,
		}
		if err := m.SetQuestions(qs); err != nil {
			return inserted, err
		}
		if err := db.Table(kind.AssessmentTable).Create(m).Error; err != nil {
			return inserted, fmt.Errorf("insert %s '%s': %w", kind.Name, seed.Title, err)
		}
		log.Printf("✅ Berhasil insert %s '%s'", kind.Name, seed.Title)
		inserted++
	}
	return inserted, nil
}
