// file: internals/features/assessments/controller/assessment_user_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/features/assessments/dto"
	helper "lms_backend/internals/helpers"
)

// GET /api/u/lessons/:lesson_id/{kind}/:id
// Quiz boleh anonymous; exam butuh login dan belum pernah dikerjakan.
func (ctl *AssessmentController) Get(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	view, err := ctl.Service.GetForLearner(c.UserContext(), ctl.Kind, lessonID, id, helper.CurrentIdentity(c))
	if err != nil {
		return ctl.respondError(c, err, "Failed to fetch "+ctl.Kind.Name)
	}
	return c.JSON(view)
}

// POST /api/u/lessons/:lesson_id/{kind}/:id/start
func (ctl *AssessmentController) Start(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	who, err := helper.RequireIdentity(c)
	if err != nil {
		return ctl.respondError(c, err, "Unauthorized")
	}

	resp, err := ctl.Service.Start(c.UserContext(), ctl.Kind, lessonID, id, who)
	if err != nil {
		return ctl.respondError(c, err, "Failed to start "+ctl.Kind.Name)
	}
	return c.JSON(resp)
}

// POST /api/u/lessons/:lesson_id/{kind}/:id/submit
// Body: { "answers": { "<questionId>": <value> } }
func (ctl *AssessmentController) Submit(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	who, err := helper.RequireIdentity(c)
	if err != nil {
		return ctl.respondError(c, err, "Unauthorized")
	}

	var req dto.SubmitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
	}

	resp, err := ctl.Service.Submit(c.UserContext(), ctl.Kind, lessonID, id, who, req.Answers)
	if err != nil {
		return ctl.respondError(c, err, "Failed to submit "+ctl.Kind.Name)
	}
	return c.JSON(resp)
}

// GET /api/u/lessons/:lesson_id/{kind}/:id/result
func (ctl *AssessmentController) Result(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	who, err := helper.RequireIdentity(c)
	if err != nil {
		return ctl.respondError(c, err, "Unauthorized")
	}

	res, err := ctl.Service.LatestResult(c.UserContext(), ctl.Kind, lessonID, id, who)
	if err != nil {
		return ctl.respondError(c, err, "Failed to fetch "+ctl.Kind.Name+" result")
	}
	return c.JSON(res)
}

// GET /api/u/lessons/:lesson_id/{kind}/:id/attempts?page=&per_page=
func (ctl *AssessmentController) ListMine(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	who, err := helper.RequireIdentity(c)
	if err != nil {
		return ctl.respondError(c, err, "Unauthorized")
	}

	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListMyAttempts(c.UserContext(), ctl.Kind, lessonID, id, who, pg)
	if err != nil {
		return ctl.respondError(c, err, "Failed to list attempts")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}

// GET /api/u/lessons/:lesson_id/{kind}/:id/attempts/:attempt_id
func (ctl *AssessmentController) GetAttempt(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	attemptID, err := helper.ParseUUIDParam(c, "attempt_id")
	if err != nil {
		return err
	}

	who, err := helper.RequireIdentity(c)
	if err != nil {
		return ctl.respondError(c, err, "Unauthorized")
	}

	res, err := ctl.Service.GetAttempt(c.UserContext(), ctl.Kind, lessonID, id, attemptID, who)
	if err != nil {
		return ctl.respondError(c, err, "Failed to fetch attempt")
	}
	return c.JSON(res)
}
