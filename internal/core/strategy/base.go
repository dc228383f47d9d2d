package strategy

import (
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// Base is the fallback for roles without a dedicated variant. It always succeeds.
type Base struct{}

func (b *Base) Name() string { return "base" }

func (b *Base) Statistics() domain.Statistics { return domain.Statistics{} }

func (b *Base) Activity(now time.Time) []domain.ActivityEvent {
	return []domain.ActivityEvent{{
		ID:          "welcome",
		Title:       "Welcome to the ERP portal",
		Description: "Your dashboard will show more once your role is configured.",
		Timestamp:   now,
		Severity:    domain.SeverityInfo,
	}}
}

func (b *Base) QuickActions() []domain.QuickAction { return []domain.QuickAction{} }
