package handler

import (
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type refreshRequest struct {
	// Mode is "sync" (wait for the fetch) or "async"; sync when omitted.
	Mode string `json:"mode" validate:"omitempty,oneof=sync async"`
}

type fetchErrorResponse struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Attempts  int    `json:"attempts"`
}

type dashboardResponse struct {
	Role        string                    `json:"role"`
	Status      string                    `json:"status"`
	Data        *domain.DashboardSnapshot `json:"data"`
	Loading     bool                      `json:"loading"`
	Error       *fetchErrorResponse       `json:"error"`
	IsStale     bool                      `json:"is_stale"`
	LastUpdated *time.Time                `json:"last_updated"`
}

type sessionResponse struct {
	SessionID   string     `json:"session_id"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	LastSeen    time.Time  `json:"last_seen"`
}

type sessionListResponse struct {
	Count    int               `json:"count"`
	Sessions []sessionResponse `json:"sessions"`
}
