package domain

import "time"

// Role identifies the kind of user a dashboard is rendered for.
// The empty Role means no identity is known yet (or the user signed out).
type Role string

const (
	RoleStudent       Role = "student"
	RoleAcademicStaff Role = "academic_staff"
	RoleHRPersonnel   Role = "hr_personnel"
	RoleFinanceStaff  Role = "finance_staff"
	RoleMarketingTeam Role = "marketing_team"
	RoleSystemAdmin   Role = "system_admin"
)

// RoleNone is the zero Role.
const RoleNone Role = ""

// Known reports whether r is one of the roles issued by the identity provider.
func (r Role) Known() bool {
	_, ok := roleSettings[r]
	return ok
}

// RoleSettings holds the per-role sync tuning.
type RoleSettings struct {
	// RefreshInterval is how often the background scheduler forces a re-fetch.
	RefreshInterval time.Duration
	// MaxQuickActions caps the quick actions published in a snapshot.
	MaxQuickActions int
}

var (
	studentSettings = RoleSettings{RefreshInterval: 5 * time.Minute, MaxQuickActions: 4}
	staffSettings   = RoleSettings{RefreshInterval: 3 * time.Minute, MaxQuickActions: 6}
	adminSettings   = RoleSettings{RefreshInterval: time.Minute, MaxQuickActions: 8}
)

// DefaultRoleSettings apply to roles missing from the table.
var DefaultRoleSettings = studentSettings

var roleSettings = map[Role]RoleSettings{
	RoleStudent:       studentSettings,
	RoleAcademicStaff: staffSettings,
	RoleHRPersonnel:   staffSettings,
	RoleFinanceStaff:  staffSettings,
	RoleMarketingTeam: staffSettings,
	RoleSystemAdmin:   adminSettings,
}

// SettingsFor returns the sync settings for role.
func SettingsFor(role Role) RoleSettings {
	if s, ok := roleSettings[role]; ok {
		return s
	}
	return DefaultRoleSettings
}
