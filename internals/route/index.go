// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"

	"lms_backend/internals/configs"
	"lms_backend/internals/constants"
	assessmentRoute "lms_backend/internals/features/assessments/route"
	"lms_backend/internals/features/assessments/service"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/middlewares"
	"lms_backend/internals/middlewares/auth"
)

var startTime time.Time

type Deps struct {
	DB          *gorm.DB
	Assessments *service.AssessmentService
	JWTSecret   string
	// SubmitLimit: maksimum submit per learner per menit (0 = default limiter)
	SubmitLimit int
}

// NewApp: fiber app dengan sonic sebagai JSON codec dan error shape standar.
func NewApp(cfg configs.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	middlewares.SetupMiddlewares(app, cfg)
	return app
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, deps.DB)

	// ===================== LEARNER =====================
	// JWT opsional di level group; endpoint yang wajib login ditolak service (401)
	log.Println("[INFO] Setting up LEARNER group...")
	learner := app.Group("/api/u",
		auth.AuthJWT(auth.AuthJWTOpts{
			Secret:              deps.JWTSecret,
			AllowCookieFallback: true,
			Optional:            true,
		}),
	)
	assessmentRoute.AssessmentUserRoutes(learner, deps.Assessments, middlewares.SubmitRateLimiter(deps.SubmitLimit, time.Minute))

	// ===================== TEACHER =====================
	log.Println("[INFO] Setting up TEACHER group (Auth + RoleCheck)...")
	teacher := app.Group("/api/t",
		auth.AuthJWT(auth.AuthJWTOpts{
			Secret:              deps.JWTSecret,
			AllowCookieFallback: true,
		}),
		auth.OnlyRoles(constants.RoleErrorTeacher("assessment"), constants.TeacherAndAbove...),
	)
	assessmentRoute.AssessmentTeacherRoutes(teacher, deps.Assessments)

	log.Println("[INFO] Routes ready")
}
