package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// SessionHandler exposes the mounted dashboard sessions to administrators.
type SessionHandler struct {
	service ports.DashboardService
}

func NewSessionHandler(service ports.DashboardService) *SessionHandler {
	return &SessionHandler{service: service}
}

// List handles GET /v1/admin/sessions.
//
// @Summary      List mounted dashboard sessions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/sessions [get]
func (h *SessionHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionListResponse(h.service.Sessions()))
}
