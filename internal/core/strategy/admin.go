package strategy

import (
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// Admin produces the system administrator dashboard.
type Admin struct{}

func (a *Admin) Name() string { return "admin" }

func (a *Admin) Statistics() domain.Statistics {
	return domain.Statistics{
		{ID: "total_users", StatValue: domain.StatValue{Value: 2847, Label: "Total Users", Change: "+38", Trend: domain.TrendUp}},
		{ID: "active_sessions", StatValue: domain.StatValue{Value: 312, Label: "Active Sessions", Trend: domain.TrendNeutral}},
		{ID: "system_health", StatValue: domain.StatValue{Value: "99.9%", Label: "System Uptime", Trend: domain.TrendUp}},
		{ID: "pending_approvals", StatValue: domain.StatValue{Value: 17, Label: "Pending Approvals", Change: "+5", Trend: domain.TrendUp}},
		{ID: "storage_used", StatValue: domain.StatValue{Value: "68%", Label: "Storage Used", Change: "+2%", Trend: domain.TrendUp}},
	}
}

func (a *Admin) Activity(now time.Time) []domain.ActivityEvent {
	return []domain.ActivityEvent{
		{
			ID:          "admin-backup-complete",
			Title:       "Nightly backup completed",
			Description: "All databases were backed up successfully.",
			Timestamp:   now.Add(-20 * time.Minute),
			Severity:    domain.SeveritySuccess,
		},
		{
			ID:          "admin-failed-logins",
			Title:       "Repeated failed logins",
			Description: "12 failed login attempts for one account in the last hour.",
			Timestamp:   now.Add(-70 * time.Minute),
			Severity:    domain.SeverityError,
			ActionURL:   "/admin/security",
		},
		{
			ID:          "admin-new-accounts",
			Title:       "New accounts awaiting approval",
			Description: "5 staff accounts were registered today.",
			Timestamp:   now.Add(-4 * time.Hour),
			Severity:    domain.SeverityWarning,
			ActionURL:   "/admin/users?status=pending",
		},
		{
			ID:          "admin-storage",
			Title:       "Storage usage rising",
			Description: "Document storage passed 65% of quota.",
			Timestamp:   now.Add(-30 * time.Hour),
			Severity:    domain.SeverityInfo,
			ActionURL:   "/admin/storage",
		},
	}
}

func (a *Admin) QuickActions() []domain.QuickAction {
	return []domain.QuickAction{
		{ID: "manage-users", Title: "Manage Users", Description: "Create and edit accounts", Target: "/admin/users", Icon: "users", ColorClass: domain.ColorBlue},
		{ID: "approve-accounts", Title: "Approve Accounts", Description: "Review pending registrations", Target: "/admin/users?status=pending", Icon: "user-check", ColorClass: domain.ColorGreen},
		{ID: "system-settings", Title: "System Settings", Description: "Configure the platform", Target: "/admin/settings", Icon: "settings", ColorClass: domain.ColorGray},
		{ID: "audit-log", Title: "Audit Log", Description: "Inspect recent changes", Target: "/admin/audit", Icon: "shield", ColorClass: domain.ColorPurple},
		{ID: "announcements", Title: "Announcements", Description: "Publish campus-wide notices", Target: "/announcements", Icon: "megaphone", ColorClass: domain.ColorOrange},
		{ID: "enrollment-report", Title: "Enrollment Report", Description: "Generate enrollment figures", Target: "/reports/enrollment", Icon: "bar-chart", ColorClass: domain.ColorIndigo},
		{ID: "finance-overview", Title: "Finance Overview", Description: "Invoices and payments", Target: "/finance", Icon: "dollar-sign", ColorClass: domain.ColorGreen},
		{ID: "backups", Title: "Backups", Description: "Manage database backups", Target: "/admin/backups", Icon: "database", ColorClass: domain.ColorYellow},
		{ID: "service-health", Title: "Service Health", Description: "Monitor running services", Target: "/admin/health", Icon: "activity", ColorClass: domain.ColorRed},
		{ID: "role-permissions", Title: "Role Permissions", Description: "Adjust access rules", Target: "/admin/roles", Icon: "key", ColorClass: domain.ColorIndigo},
	}
}
