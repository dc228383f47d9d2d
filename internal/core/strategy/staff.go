package strategy

import (
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// Staff produces the dashboard shared by teaching and administrative staff.
type Staff struct{}

func (s *Staff) Name() string { return "staff" }

func (s *Staff) Statistics() domain.Statistics {
	return domain.Statistics{
		{ID: "classes", StatValue: domain.StatValue{Value: 4, Label: "Classes This Term", Trend: domain.TrendNeutral}},
		{ID: "students", StatValue: domain.StatValue{Value: 128, Label: "Students", Change: "+6", Trend: domain.TrendUp}},
		{ID: "pending_grades", StatValue: domain.StatValue{Value: 23, Label: "Pending Grades", Change: "-12", Trend: domain.TrendDown}},
		{ID: "office_hours", StatValue: domain.StatValue{Value: "Tue 14:00", Label: "Next Office Hours"}},
	}
}

func (s *Staff) Activity(now time.Time) []domain.ActivityEvent {
	return []domain.ActivityEvent{
		{
			ID:          "staff-submissions",
			Title:       "New submissions",
			Description: "14 students submitted Project 2.",
			Timestamp:   now.Add(-45 * time.Minute),
			Severity:    domain.SeverityInfo,
			ActionURL:   "/academics/submissions",
		},
		{
			ID:          "staff-attendance-alert",
			Title:       "Attendance alert",
			Description: "3 students are below the 75% attendance threshold.",
			Timestamp:   now.Add(-3 * time.Hour),
			Severity:    domain.SeverityWarning,
			ActionURL:   "/academics/attendance",
		},
		{
			ID:          "staff-leave-approved",
			Title:       "Leave request approved",
			Description: "Your leave for the conference week was approved by HR.",
			Timestamp:   now.Add(-28 * time.Hour),
			Severity:    domain.SeveritySuccess,
			ActionURL:   "/hr/leave",
		},
	}
}

func (s *Staff) QuickActions() []domain.QuickAction {
	return []domain.QuickAction{
		{ID: "take-attendance", Title: "Take Attendance", Description: "Open today's roll call", Target: "/academics/attendance", Icon: "check-square", ColorClass: domain.ColorBlue},
		{ID: "enter-grades", Title: "Enter Grades", Description: "Grade pending submissions", Target: "/academics/grades", Icon: "edit", ColorClass: domain.ColorGreen},
		{ID: "post-announcement", Title: "Post Announcement", Description: "Notify your classes", Target: "/announcements/new", Icon: "megaphone", ColorClass: domain.ColorPurple},
		{ID: "class-roster", Title: "Class Roster", Description: "Browse enrolled students", Target: "/academics/roster", Icon: "users", ColorClass: domain.ColorOrange},
		{ID: "request-leave", Title: "Request Leave", Description: "Submit a leave request", Target: "/hr/leave/new", Icon: "calendar-x", ColorClass: domain.ColorYellow},
		{ID: "payslips", Title: "Payslips", Description: "Download recent payslips", Target: "/hr/payslips", Icon: "file-text", ColorClass: domain.ColorIndigo},
		{ID: "reports", Title: "Reports", Description: "Course performance reports", Target: "/reports", Icon: "bar-chart", ColorClass: domain.ColorGray},
	}
}
