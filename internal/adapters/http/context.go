package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user id set by the auth
// middleware. A missing or malformed value yields uuid.Nil, which no row
// will ever match.
func getUserIDFromContext(c echo.Context) uuid.UUID {
	userIDStr, ok := c.Get("user").(string)
	if !ok {
		return uuid.Nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil
	}

	return userID
}
