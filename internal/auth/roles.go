package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/publicvoice/internal/domain"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

// RequireRoles ensures the authenticated actor holds one of the allowed roles.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("Authentication required")
		}
		if _, exists := allowedSet[actor.Role]; !exists {
			return apperrors.NewForbidden("Access denied. Insufficient permissions")
		}
		return c.Next()
	}
}

// RequireCitizen guards citizen-only routes.
func RequireCitizen() fiber.Handler {
	return RequireRoles(domain.RoleCitizen)
}

// RequireStaff guards /api/admin routes; the superadmin is admitted too.
func RequireStaff() fiber.Handler {
	return RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin)
}

// RequireSuperAdmin guards /api/superadmin routes.
func RequireSuperAdmin() fiber.Handler {
	return RequireRoles(domain.RoleSuperAdmin)
}
