package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ictuniversity/erp-dashboard/internal/api/middleware"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. The role may be
// empty; the service decides what an unauthenticated role means.
func ctxIdentity(c echo.Context) (sessionID string, role domain.Role, err error) {
	sessionID, _ = c.Get(middleware.KeySessionID).(string)
	if sessionID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get(middleware.KeyRole).(domain.Role)
	return sessionID, role, nil
}
