package route

import (
	"github.com/gofiber/fiber/v2"

	acontroller "lms_backend/internals/features/assessments/controller"
	"lms_backend/internals/features/assessments/model"
	"lms_backend/internals/features/assessments/service"
)

/*
Catatan:
- Parent router di-mount dengan prefix /api/t + AuthJWT + OnlyRoles(teacher, admin).
*/

func AssessmentTeacherRoutes(r fiber.Router, svc *service.AssessmentService) {
	for _, kind := range model.Kinds {
		ctl := acontroller.NewAssessmentController(kind, svc)

		// Base: /api/t/lessons/:lesson_id/{quizzes|exams}
		g := r.Group("/lessons/:lesson_id/" + kind.Plural)

		g.Post("/", ctl.Create)
		g.Delete("/:id", ctl.Delete)
		g.Get("/:id/attempts", ctl.ListAll) // laporan semua learner
	}
}
