package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/publicvoice/internal/domain"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

const actorKey = "auth_actor"

// ActorLookup resolves the actor a token is bound to.
type ActorLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
}

// AuthMiddleware validates bearer tokens and loads the calling actor.
type AuthMiddleware struct {
	tokens *TokenManager
	actors ActorLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, actors ActorLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, actors: actors}
}

// Handle enforces authentication: a missing token or an inactive actor is 401,
// a token that fails verification is 403.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return apperrors.NewUnauthenticated("Authentication required")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewForbidden("Invalid or expired token")
	}

	actor, err := m.actors.GetByID(c.UserContext(), claims.ActorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthenticated("Invalid authentication")
		}
		return apperrors.MapError(err)
	}
	if !actor.IsActive {
		return apperrors.NewUnauthenticated("Invalid authentication")
	}

	c.Locals(actorKey, actor)
	return c.Next()
}

// ActorFromContext retrieves the authenticated actor.
func ActorFromContext(c *fiber.Ctx) (*domain.Actor, bool) {
	actor, ok := c.Locals(actorKey).(*domain.Actor)
	return actor, ok && actor != nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
