package strategy

import (
	"time"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
)

// Student produces the dashboard of an enrolled student.
type Student struct{}

func (s *Student) Name() string { return "student" }

func (s *Student) Statistics() domain.Statistics {
	return domain.Statistics{
		{ID: "gpa", StatValue: domain.StatValue{Value: 3.45, Label: "Current GPA", Change: "+0.12", Trend: domain.TrendUp}},
		{ID: "courses", StatValue: domain.StatValue{Value: 6, Label: "Enrolled Courses", Change: "Spring term", Trend: domain.TrendNeutral}},
		{ID: "attendance", StatValue: domain.StatValue{Value: "92%", Label: "Attendance Rate", Change: "-1.5%", Trend: domain.TrendDown}},
		{ID: "fees", StatValue: domain.StatValue{Value: "$1,250", Label: "Outstanding Fees", Change: "Due in 14 days", Trend: domain.TrendNeutral}},
	}
}

func (s *Student) Activity(now time.Time) []domain.ActivityEvent {
	return []domain.ActivityEvent{
		{
			ID:          "student-grade-posted",
			Title:       "Grade posted",
			Description: "Your Data Structures midterm has been graded.",
			Timestamp:   now.Add(-2 * time.Hour),
			Severity:    domain.SeveritySuccess,
			ActionURL:   "/academics/grades",
		},
		{
			ID:          "student-assignment-due",
			Title:       "Assignment due soon",
			Description: "Database Systems project 2 is due on Friday.",
			Timestamp:   now.Add(-5 * time.Hour),
			Severity:    domain.SeverityWarning,
			ActionURL:   "/academics/assignments",
		},
		{
			ID:          "student-fee-reminder",
			Title:       "Tuition installment reminder",
			Description: "The second installment of the semester fees is pending.",
			Timestamp:   now.Add(-26 * time.Hour),
			Severity:    domain.SeverityInfo,
			ActionURL:   "/finance/invoices",
		},
		{
			ID:          "student-timetable-change",
			Title:       "Timetable updated",
			Description: "Operating Systems lab moved to Room B204.",
			Timestamp:   now.Add(-50 * time.Hour),
			Severity:    domain.SeverityInfo,
		},
	}
}

func (s *Student) QuickActions() []domain.QuickAction {
	return []domain.QuickAction{
		{ID: "view-grades", Title: "View Grades", Description: "Check your latest results", Target: "/academics/grades", Icon: "award", ColorClass: domain.ColorBlue},
		{ID: "course-registration", Title: "Course Registration", Description: "Add or drop courses", Target: "/academics/registration", Icon: "book-open", ColorClass: domain.ColorGreen},
		{ID: "pay-fees", Title: "Pay Fees", Description: "Settle outstanding invoices", Target: "/finance/payments", Icon: "credit-card", ColorClass: domain.ColorPurple},
		{ID: "timetable", Title: "Timetable", Description: "See this week's classes", Target: "/academics/timetable", Icon: "calendar", ColorClass: domain.ColorOrange},
		{ID: "library", Title: "Library", Description: "Search the catalogue", Target: "/library", Icon: "library", ColorClass: domain.ColorIndigo},
	}
}
