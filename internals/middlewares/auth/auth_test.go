package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "lms_backend/internals/helpers"
	"lms_backend/internals/middlewares/auth"
)

const secret = "s3cret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func newApp(opts auth.AuthJWTOpts, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	handlers := append([]fiber.Handler{auth.AuthJWT(opts)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		who := helper.CurrentIdentity(c)
		if who == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(who.LearnerID.String() + "|" + who.Role)
	})
	app.Get("/me", handlers...)
	return app
}

func get(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthJWT(t *testing.T) {
	id := uuid.New()
	valid := sign(t, secret, jwt.MapClaims{"id": id.String(), "role": "Teacher", "exp": time.Now().Add(time.Hour).Unix()})
	expired := sign(t, secret, jwt.MapClaims{"id": id.String(), "exp": time.Now().Add(-time.Hour).Unix()})
	foreign := sign(t, "other", jwt.MapClaims{"id": id.String(), "exp": time.Now().Add(time.Hour).Unix()})
	noRole := sign(t, secret, jwt.MapClaims{"sub": id.String(), "exp": time.Now().Add(time.Hour).Unix()})
	badID := sign(t, secret, jwt.MapClaims{"id": "nope", "exp": time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		name     string
		optional bool
		header   string
		status   int
		body     string
	}{
		{name: "valid", header: "Bearer " + valid, status: 200, body: id.String() + "|teacher"},
		{name: "lowercase scheme", header: "bearer  " + valid, status: 200, body: id.String() + "|teacher"},
		{name: "sub claim defaults to student", header: "Bearer " + noRole, status: 200, body: id.String() + "|student"},
		{name: "missing", status: 401},
		{name: "bad scheme", header: "Token " + valid, status: 401},
		{name: "expired", header: "Bearer " + expired, status: 401},
		{name: "wrong secret", header: "Bearer " + foreign, status: 401},
		{name: "non uuid id", header: "Bearer " + badID, status: 401},
		{name: "optional missing", optional: true, status: 200, body: "anonymous"},
		{name: "optional expired", optional: true, header: "Bearer " + expired, status: 200, body: "anonymous"},
		{name: "optional valid", optional: true, header: "Bearer " + valid, status: 200, body: id.String() + "|teacher"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(auth.AuthJWTOpts{Secret: secret, Optional: tc.optional})
			status, body := get(t, app, tc.header)
			if status != tc.status {
				t.Fatalf("want %d, got %d (%s)", tc.status, status, body)
			}
			if tc.body != "" && body != tc.body {
				t.Fatalf("want body %q, got %q", tc.body, body)
			}
		})
	}
}

func TestAuthJWT_CookieFallback(t *testing.T) {
	id := uuid.New()
	tok := sign(t, secret, jwt.MapClaims{"id": id.String(), "exp": time.Now().Add(time.Hour).Unix()})

	for _, allow := range []bool{true, false} {
		app := newApp(auth.AuthJWTOpts{Secret: secret, AllowCookieFallback: allow})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()

		want := fiber.StatusUnauthorized
		if allow {
			want = fiber.StatusOK
		}
		if resp.StatusCode != want {
			t.Fatalf("allowCookie=%v: want %d, got %d", allow, want, resp.StatusCode)
		}
	}
}

func TestOnlyRolesSlice(t *testing.T) {
	mk := func(role string) string {
		return "Bearer " + sign(t, secret, jwt.MapClaims{"id": uuid.NewString(), "role": role, "exp": time.Now().Add(time.Hour).Unix()})
	}
	app := newApp(auth.AuthJWTOpts{Secret: secret, Optional: true}, auth.OnlyRoles("teachers only", "teacher", "admin"))

	if status, _ := get(t, app, mk("admin")); status != fiber.StatusOK {
		t.Fatalf("admin: %d", status)
	}
	if status, _ := get(t, app, mk("student")); status != fiber.StatusForbidden {
		t.Fatalf("student: %d", status)
	}
	if status, _ := get(t, app, ""); status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous: %d", status)
	}
}
