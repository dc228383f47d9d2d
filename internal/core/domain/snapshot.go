package domain

import "time"

// Trend is the direction a statistic moved since the previous period.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Severity classifies an activity event for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ColorClass is the palette slot a quick action is rendered with.
type ColorClass string

const (
	ColorBlue   ColorClass = "blue"
	ColorGreen  ColorClass = "green"
	ColorPurple ColorClass = "purple"
	ColorOrange ColorClass = "orange"
	ColorRed    ColorClass = "red"
	ColorIndigo ColorClass = "indigo"
	ColorYellow ColorClass = "yellow"
	ColorGray   ColorClass = "gray"
)

// StatValue is a single dashboard statistic. Value is either a string or a number.
type StatValue struct {
	Value  any    `json:"value"`
	Label  string `json:"label"            validate:"required"`
	Change string `json:"change,omitempty"`
	Trend  Trend  `json:"trend,omitempty"  validate:"omitempty,oneof=up down neutral"`
}

// Stat pairs a StatValue with its stable identifier.
type Stat struct {
	ID string `json:"id" validate:"required"`
	StatValue
}

// Statistics is an ordered mapping of stat id to value.
type Statistics []Stat

// Get returns the value stored under id.
func (s Statistics) Get(id string) (StatValue, bool) {
	for _, st := range s {
		if st.ID == id {
			return st.StatValue, true
		}
	}
	return StatValue{}, false
}

// IDs returns the stat ids in order.
func (s Statistics) IDs() []string {
	ids := make([]string, len(s))
	for i, st := range s {
		ids[i] = st.ID
	}
	return ids
}

// ActivityEvent is one entry of the activity feed.
type ActivityEvent struct {
	ID          string    `json:"id"                   validate:"required"`
	Title       string    `json:"title"                validate:"required"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"            validate:"required"`
	Severity    Severity  `json:"severity"             validate:"required,oneof=info success warning error"`
	ActionURL   string    `json:"action_url,omitempty"`
}

// QuickAction is a shortcut offered on the dashboard.
type QuickAction struct {
	ID          string     `json:"id"          validate:"required"`
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description"`
	Target      string     `json:"target"      validate:"required"`
	Icon        string     `json:"icon"        validate:"required"`
	ColorClass  ColorClass `json:"color_class" validate:"required,oneof=blue green purple orange red indigo yellow gray"`
	Disabled    bool       `json:"disabled"`
}

// DashboardSnapshot is the bundle of content published for one role at one point in time.
// Snapshots are never mutated after the fetcher returns them; a refresh builds a new one.
type DashboardSnapshot struct {
	Statistics Statistics      `json:"statistics" validate:"dive"`
	Activity   []ActivityEvent `json:"activity"   validate:"dive"`
	Actions    []QuickAction   `json:"actions"    validate:"dive"`
	Role       Role            `json:"role"`
	FetchedAt  time.Time       `json:"fetched_at" validate:"required"`
}

// SyncStatus is the state of a sync controller.
type SyncStatus string

const (
	StatusIdle    SyncStatus = "idle"
	StatusLoading SyncStatus = "loading"
	StatusReady   SyncStatus = "ready"
	StatusFailed  SyncStatus = "failed"
)
