package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims stored by the auth middleware.
func getUserIDFromContext(c echo.Context) (uint, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Missing or invalid authentication")
	}
	return claims.UserID, nil
}

// postOwnerID renders a numeric user ID the way post and story documents
// store their owner, as a string.
func postOwnerID(userID uint) string {
	return fmt.Sprint(userID)
}
