package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// DashboardHandler serves the published dashboard state of the caller's session.
type DashboardHandler struct {
	service   ports.DashboardService
	revoker   ports.SessionRevoker
	revokeTTL time.Duration
}

// NewDashboardHandler creates a DashboardHandler. revoker may be nil, in which case
// sign-out only unmounts the session.
func NewDashboardHandler(service ports.DashboardService, revoker ports.SessionRevoker, revokeTTL time.Duration) *DashboardHandler {
	return &DashboardHandler{service: service, revoker: revoker, revokeTTL: revokeTTL}
}

// Get handles GET /v1/dashboard.
//
// @Summary      Get the dashboard of the current session
// @Description  Mounts the session on first use. Fetch failures are reported in the error field, not as HTTP errors.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	sessionID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	state, err := h.service.State(c.Request().Context(), sessionID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(state))
}

// Refresh handles POST /v1/dashboard/refresh.
//
// @Summary      Force a dashboard refresh
// @Description  Bypasses the cache. mode=sync waits for the fetch; mode=async returns 202 immediately.
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      refreshRequest  false  "Refresh mode"
// @Success      200   {object}  dashboardResponse
// @Success      202   {object}  dashboardResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/dashboard/refresh [post]
func (h *DashboardHandler) Refresh(c echo.Context) error {
	sessionID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req refreshRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	wait := req.Mode != "async"
	state, err := h.service.Refresh(c.Request().Context(), sessionID, role, wait)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if !wait {
		code = http.StatusAccepted
	}
	return c.JSON(code, toDashboardResponse(state))
}

// SignOut handles DELETE /v1/dashboard/session.
//
// @Summary      Sign out of the dashboard
// @Description  Revokes the session id and tears its dashboard down.
// @Tags         dashboard
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/dashboard/session [delete]
func (h *DashboardHandler) SignOut(c echo.Context) error {
	sessionID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if h.revoker != nil {
		if err := h.revoker.Revoke(ctx, sessionID, h.revokeTTL); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
	}
	// A session that never mounted a dashboard has nothing to tear down.
	if err := h.service.Release(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
