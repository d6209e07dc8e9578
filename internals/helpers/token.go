package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"kursusku_backend/internals/configs"
)

const (
	LocUserID   = "user_id"
	LocUserRole = "user_role"
)

// GetRawAccessToken returns the access token from:
// 1) cookie "access_token"
// 2) Authorization header "Bearer <token>"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
		return v
	}
	const p = "Bearer "
	auth := c.Get("Authorization")
	if len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

// GetUserID resolves the caller's identity-provider user id.
// Locals set by the auth middleware win; otherwise the bearer token is
// decoded directly so handlers keep working when mounted without it.
func GetUserID(c *fiber.Ctx) (string, error) {
	if v, ok := c.Locals(LocUserID).(string); ok && v != "" {
		return v, nil
	}
	claims, err := parseBearerClaims(c)
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}

// GetUserRole resolves the caller's role (student|educator).
func GetUserRole(c *fiber.Ctx) (string, error) {
	if v, ok := c.Locals(LocUserRole).(string); ok && v != "" {
		return v, nil
	}
	claims, err := parseBearerClaims(c)
	if err != nil {
		return "", err
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return "", errors.New("missing role claim")
	}
	return role, nil
}

func parseBearerClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	raw := GetRawAccessToken(c)
	if raw == "" {
		return nil, errors.New("missing bearer token")
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err != nil {
		return nil, err
	}
	return claims, nil
}
