// internals/middlewares/auth/jwt_auth.go
package auth

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "lms_backend/internals/helpers"
)

type AuthJWTOpts struct {
	Secret string
	// AllowCookieFallback: pakai cookie "access_token" kalau header kosong
	AllowCookieFallback bool
	// Optional: token kosong/invalid => lanjut sebagai anonymous
	Optional bool
	// Leeway untuk exp
	Skew time.Duration
}

// AuthJWT memverifikasi token sekali per request dan menaruh helper.Identity
// di Locals. Handler di belakangnya cukup membaca helper.CurrentIdentity.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	if opts.Skew <= 0 {
		opts.Skew = 30 * time.Second
	}

	reject := func(c *fiber.Ctx, msg string) error {
		if opts.Optional {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusUnauthorized, msg)
	}

	return func(c *fiber.Ctx) error {
		// identity sudah di-set oleh middleware di depan (group bertingkat)
		if helper.CurrentIdentity(c) != nil {
			return c.Next()
		}

		tokenString, err := extractBearerToken(c, opts.AllowCookieFallback)
		if err != nil {
			return reject(c, "Unauthorized - "+err.Error())
		}

		secret := strings.TrimSpace(opts.Secret)
		if secret == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			if opts.Optional {
				return c.Next()
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{"HS256", "HS384", "HS512"}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}); err != nil {
			log.Println("[WARN] Gagal parse token:", err)
			return reject(c, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, opts.Skew); err != nil {
			return reject(c, "Unauthorized - Token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return reject(c, "Unauthorized - Invalid or missing user ID")
		}

		helper.SetIdentity(c, helper.Identity{
			LearnerID: userID,
			Role:      extractRole(claims),
		})
		return c.Next()
	}
}
