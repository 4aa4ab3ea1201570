package middleware

import (
	"net/http"
	"strings"

	"TutorHub/internal/auth"
	"TutorHub/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JWTMiddleware parses the bearer token and resolves it to a live user.
// Deactivated or deleted accounts are rejected here, before any business
// operation runs, regardless of token validity.
func JWTMiddleware(users auth.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, response.Fail("missing token"))
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := auth.ValidateJWT(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, response.Fail("invalid token"))
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, response.Fail("invalid token"))
			}
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, response.Fail("internal server error"))
			}
			if user == nil || !user.IsActive {
				return c.JSON(http.StatusUnauthorized, response.Fail("account is deactivated"))
			}

			c.Set("user", claims)
			c.Set(auth.CurrentUserKey, user)
			return next(c)
		}
	}
}
