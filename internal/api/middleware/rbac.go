package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// RBAC enforces role-based access control on the role injected by Auth. Rejections
// wrap domain.ErrForbidden and are rendered by the central error handler.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return fmt.Errorf("role %q on %s: %w", role, c.Path(), domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
