package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeySubject   = "sub"
	KeySessionID = "sid"
	KeyRole      = "role"
)

// Auth validates the JWT issued by the identity provider and injects the subject,
// session id and role into the context. When revoker is non-nil, tokens belonging
// to a signed-out session are rejected with domain.ErrSessionRevoked.
func Auth(jwtSecret string, revoker ports.SessionRevoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			subject, _ := claims["sub"].(string)
			if subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}
			// One dashboard session per user when the provider issues no session id.
			sessionID, _ := claims["sid"].(string)
			if sessionID == "" {
				sessionID = subject
			}
			role, _ := claims["role"].(string)

			if revoker != nil {
				revoked, err := revoker.IsRevoked(c.Request().Context(), sessionID)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable").SetInternal(err)
				}
				if revoked {
					return fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionRevoked)
				}
			}

			c.Set(KeySubject, subject)
			c.Set(KeySessionID, sessionID)
			c.Set(KeyRole, domain.Role(role))

			return next(c)
		}
	}
}
