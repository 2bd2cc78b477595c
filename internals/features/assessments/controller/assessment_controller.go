// file: internals/features/assessments/controller/assessment_controller.go
package controller

import (
	"errors"
	"log"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/features/assessments/model"
	"lms_backend/internals/features/assessments/service"
	helper "lms_backend/internals/helpers"
)

// AssessmentController melayani satu Kind (quiz atau exam); route mendaftarkan
// satu instance per Kind di bawah segment Kind.Plural.
type AssessmentController struct {
	Kind      model.Kind
	Service   *service.AssessmentService
	validator *validator.Validate
}

func NewAssessmentController(kind model.Kind, svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Kind: kind, Service: svc, validator: validator.New()}
}

// respondError: satu-satunya tempat error domain dipetakan ke HTTP.
func (ctl *AssessmentController) respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, model.ErrAlreadyTaken):
		return helper.JsonError(c, fiber.StatusForbidden, "You have already taken this "+ctl.Kind.Name)
	case errors.Is(err, model.ErrTimeLimitExceeded):
		return helper.JsonError(c, fiber.StatusForbidden, "Time limit for this "+ctl.Kind.Name+" has passed")
	case errors.Is(err, model.ErrAssessmentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, ctl.Kind.Title()+" not found")
	case errors.Is(err, model.ErrAttemptNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Attempt not found")
	case errors.Is(err, model.ErrNoResult):
		return helper.JsonError(c, fiber.StatusNotFound, "No result found")
	case errors.Is(err, model.ErrInvalidAnswers):
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid answers format")
	case errors.Is(err, model.ErrInvalidAssessment):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}

	if !service.IsClientError(err) {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}
