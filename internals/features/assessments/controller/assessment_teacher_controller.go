// file: internals/features/assessments/controller/assessment_teacher_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/features/assessments/dto"
	helper "lms_backend/internals/helpers"
)

// POST /api/t/lessons/:lesson_id/{kind}
func (ctl *AssessmentController) Create(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}

	var req dto.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	detail, err := ctl.Service.Create(c.UserContext(), ctl.Kind, lessonID, helper.CurrentIdentity(c), req)
	if err != nil {
		return ctl.respondError(c, err, "Failed to create "+ctl.Kind.Name)
	}
	return helper.JsonCreated(c, ctl.Kind.Title()+" created", detail)
}

// DELETE /api/t/lessons/:lesson_id/{kind}/:id
func (ctl *AssessmentController) Delete(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctl.Service.Delete(c.UserContext(), ctl.Kind, lessonID, id); err != nil {
		return ctl.respondError(c, err, "Failed to delete "+ctl.Kind.Name)
	}
	return helper.JsonDeleted(c, ctl.Kind.Title()+" deleted", fiber.Map{"id": id})
}

// GET /api/t/lessons/:lesson_id/{kind}/:id/attempts?page=&per_page=
func (ctl *AssessmentController) ListAll(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lesson_id")
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	pg := helper.ResolvePaging(c, 20, 200)
	rows, total, err := ctl.Service.ListAttemptsForAssessment(c.UserContext(), ctl.Kind, lessonID, id, pg)
	if err != nil {
		return ctl.respondError(c, err, "Failed to list attempts")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}
