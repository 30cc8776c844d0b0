package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AdminAuth guards the review and automation-management routes. Tokens are
// HS256 bearer JWTs carrying a role claim.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || claims["role"] != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}

			c.Set("user_id", claims["sub"])
			return next(c)
		}
	}
}
