package route

import (
	"github.com/gofiber/fiber/v2"

	acontroller "lms_backend/internals/features/assessments/controller"
	"lms_backend/internals/features/assessments/model"
	"lms_backend/internals/features/assessments/service"
)

/*
Catatan:
- Parent router di-mount dengan prefix /api/u + AuthJWT (Optional).
- Wajib-login ditegakkan di service (quiz GET boleh anonymous).
*/

func AssessmentUserRoutes(r fiber.Router, svc *service.AssessmentService, submitLimiter fiber.Handler) {
	for _, kind := range model.Kinds {
		ctl := acontroller.NewAssessmentController(kind, svc)

		// Base: /api/u/lessons/:lesson_id/{quizzes|exams}
		g := r.Group("/lessons/:lesson_id/" + kind.Plural)

		g.Get("/:id", ctl.Get)           // sanitized, tanpa kunci jawaban
		g.Post("/:id/start", ctl.Start)  // start marker (idempotent)
		g.Get("/:id/result", ctl.Result) // attempt terakhir
		g.Get("/:id/attempts", ctl.ListMine)
		g.Get("/:id/attempts/:attempt_id", ctl.GetAttempt)

		if submitLimiter != nil {
			g.Post("/:id/submit", submitLimiter, ctl.Submit)
		} else {
			g.Post("/:id/submit", ctl.Submit)
		}
	}
}
