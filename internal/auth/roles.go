package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// RequireAccessLevel ensures the caller holds one of the allowed levels.
func RequireAccessLevel(allowed ...domain.AccessLevel) fiber.Handler {
	allowedSet := make(map[domain.AccessLevel]struct{}, len(allowed))
	for _, level := range allowed {
		allowedSet[level] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewContextError("business code header is required")
		}
		if _, exists := allowedSet[identity.AccessLevel]; !exists {
			return apperrors.NewForbidden("insufficient access level")
		}
		return c.Next()
	}
}

// RequireAdministrator allows managers and system admins.
func RequireAdministrator() fiber.Handler {
	return RequireAccessLevel(domain.AccessLevelManager, domain.AccessLevelSystemAdmin)
}
