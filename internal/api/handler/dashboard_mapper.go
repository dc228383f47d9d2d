package handler

import (
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// --- Service result → HTTP response ---

func toDashboardResponse(s ports.DashboardState) dashboardResponse {
	resp := dashboardResponse{
		Role:        string(s.Role),
		Status:      string(s.Status),
		Data:        s.Data,
		Loading:     s.Loading,
		IsStale:     s.IsStale,
		LastUpdated: s.LastUpdated,
	}
	if s.Error != nil {
		resp.Error = &fetchErrorResponse{
			Kind:      string(s.Error.Kind),
			Message:   s.Error.Message,
			Retryable: s.Error.Retryable,
			Attempts:  s.Error.Attempts,
		}
	}
	return resp
}

func toSessionListResponse(sessions []ports.SessionSummary) sessionListResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			SessionID:   s.SessionID,
			Role:        string(s.Role),
			Status:      string(s.Status),
			LastUpdated: s.LastUpdated,
			LastSeen:    s.LastSeen.UTC(),
		})
	}
	return sessionListResponse{Count: len(out), Sessions: out}
}
