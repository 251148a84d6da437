package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Identity reads the caller's scope from the identity headers. Requests
// without a business code are rejected before reaching a handler.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := domain.AuthContext{
			BusinessCode: strings.TrimSpace(c.Get(domain.HeaderBusinessCode)),
			VenueCode:    strings.TrimSpace(c.Get(domain.HeaderVenueCode)),
			AccessLevel:  domain.AccessLevel(strings.TrimSpace(c.Get(domain.HeaderAccessLevel))),
		}
		if !identity.Scoped() {
			return apperrors.NewContextError("business code header is required")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFromContext retrieves the caller's scope.
func IdentityFromContext(c *fiber.Ctx) (domain.AuthContext, bool) {
	identity, ok := c.Locals(identityKey).(domain.AuthContext)
	return identity, ok
}
