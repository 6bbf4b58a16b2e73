package handler

import (
	"github.com/labstack/echo/v4"

	"mesto/internal/auth"
)

// Context keys set by the auth middleware.
const (
	UserIDKey = "userID"
	ClaimsKey = "claims"
)

func currentUserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

func currentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsKey).(*auth.Claims)
	return claims
}
