package handler

import (
	"strings"

	"github.com/AnthoniusHendriyanto/post-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/post-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

const userIDKey = "userID"

// RequireAuth rejects the request with 401 unless it carries
// "Authorization: Bearer <token>" with a token the verifier accepts. The
// resolved user id is then available through CurrentUserID.
func RequireAuth(verifier service.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return WriteError(c, autherror.ErrMissingAuthHeader)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return WriteError(c, autherror.ErrInvalidAuthHeader)
		}

		userID, ok := verifier.Verify(parts[1])
		if !ok {
			return WriteError(c, autherror.ErrInvalidToken)
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// RequireAuth on the handler uses the handler's own verifier.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return RequireAuth(h.verifier)
}

// CurrentUserID returns the id stored by RequireAuth. ok is false on routes
// that are not behind the gate.
func CurrentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(userIDKey).(string)
	return userID, ok && userID != ""
}
