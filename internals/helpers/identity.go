package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LocIdentity: key Locals tempat middleware auth menaruh identitas request.
const LocIdentity = "identity"

// Identity diisi sekali per request oleh middleware auth, lalu diteruskan
// eksplisit ke service. Learner id tidak pernah diambil dari input client.
type Identity struct {
	LearnerID uuid.UUID
	Role      string
}

func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(LocIdentity, &id)
}

// CurrentIdentity returns nil for anonymous requests.
func CurrentIdentity(c *fiber.Ctx) *Identity {
	id, ok := c.Locals(LocIdentity).(*Identity)
	if !ok || id == nil || id.LearnerID == uuid.Nil {
		return nil
	}
	return id
}

// RequireIdentity: 401 kalau belum login.
func RequireIdentity(c *fiber.Ctx) (*Identity, error) {
	id := CurrentIdentity(c)
	if id == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return id, nil
}
