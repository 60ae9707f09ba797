package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ActorIDLocalKey is the key used to store the authenticated user ID in
// Fiber's context locals.
const ActorIDLocalKey = "actor_id"

// Auth verifies the Bearer token on each request and stores the subject
// claim — the acting user's ID — in context locals. Token issuance lives in
// a separate identity service; this middleware only establishes who is
// calling.
func Auth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractBearer(c)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization token required")
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
		}

		c.Locals(ActorIDLocalKey, sub)
		return c.Next()
	}
}

func extractBearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}
