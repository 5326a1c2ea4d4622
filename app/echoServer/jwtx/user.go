package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserID reads the authenticated user id from the echo context. The auth
// middleware sets "user_id" after claim extraction; the raw token is the
// fallback when a handler runs with only echo-jwt in front of it.
func UserID(c echo.Context) (int64, error) {
	if uid, ok := c.Get("user_id").(int64); ok && uid > 0 {
		return uid, nil
	}

	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid jwt claims")
	}
	if f, ok := claims["sub"].(float64); ok {
		return int64(f), nil
	}
	return 0, errors.New("sub missing in claims")
}
