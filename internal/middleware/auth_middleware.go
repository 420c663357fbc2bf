package middleware

import (
	"strings"

	"go-sitesafety-ws/internal/gate"

	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// ScopeDecoder turns a scope token back into a session
type ScopeDecoder interface {
	Decode(token string) (gate.Session, error)
}

// RequireScope validates the Bearer scope token and stores the session in
// the context for downstream handlers
func RequireScope(decoder ScopeDecoder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing scope token"})
		}

		// "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		sess, err := decoder.Decode(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired scope token"})
		}

		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// RequireStage lets the request through when the session is in one of states
func RequireStage(states ...gate.State) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := c.Locals(sessionKey).(gate.Session)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "No session found"})
		}
		for _, s := range states {
			if sess.State == s {
				return c.Next()
			}
		}

		names := make([]string, len(states))
		for i, s := range states {
			names[i] = string(s)
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(names, ", "),
			"state": sess.State,
		})
	}
}

// RequireField admits inspector roles inside a store
func RequireField() fiber.Handler {
	return RequireStage(gate.StateFieldWork)
}

// RequireMonitoring admits the monitoring center
func RequireMonitoring() fiber.Handler {
	return RequireStage(gate.StateMonitoring)
}

// Session returns the session set by RequireScope, or the locked session
func Session(c *fiber.Ctx) gate.Session {
	if sess, ok := c.Locals(sessionKey).(gate.Session); ok {
		return sess
	}
	return gate.Locked()
}
