package strategy

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

func TestRegistry_ResolvesVariants(t *testing.T) {
	tests := []struct {
		role domain.Role
		want string
	}{
		{domain.RoleStudent, "student"},
		{domain.RoleAcademicStaff, "staff"},
		{domain.RoleHRPersonnel, "staff"},
		{domain.RoleFinanceStaff, "staff"},
		{domain.RoleMarketingTeam, "staff"},
		{domain.RoleSystemAdmin, "admin"},
		{domain.Role("alumni"), "base"},
		{domain.RoleNone, "base"},
	}

	reg := NewRegistry()
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Get(tt.role).Name())
		})
	}
}

func TestRegistry_Memoizes(t *testing.T) {
	reg := NewRegistry()

	first := reg.Get(domain.RoleStudent)
	second := reg.Get(domain.RoleStudent)

	assert.Same(t, first, second)
	assert.Len(t, reg.instances, 1)
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	got := make([]ports.ContentStrategy, 32)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = reg.Get(domain.RoleSystemAdmin)
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}

func TestStudent_Statistics(t *testing.T) {
	stats := (&Student{}).Statistics()
	assert.Equal(t, []string{"gpa", "courses", "attendance", "fees"}, stats.IDs())

	gpa, ok := stats.Get("gpa")
	require.True(t, ok)
	assert.Equal(t, domain.TrendUp, gpa.Trend)
}

func TestStrategies_ProposeMoreActionsThanCap(t *testing.T) {
	tests := []struct {
		role     domain.Role
		proposed int
	}{
		{domain.RoleStudent, 5},
		{domain.RoleAcademicStaff, 7},
		{domain.RoleSystemAdmin, 10},
	}

	reg := NewRegistry()
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			actions := reg.Get(tt.role).QuickActions()
			assert.Len(t, actions, tt.proposed)
			assert.Greater(t, len(actions), domain.SettingsFor(tt.role).MaxQuickActions)
		})
	}
}

func TestStrategies_ActivityNewestFirstWithUniqueIDs(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for _, s := range []ports.ContentStrategy{&Student{}, &Staff{}, &Admin{}, &Base{}} {
		t.Run(s.Name(), func(t *testing.T) {
			events := s.Activity(now)
			require.NotEmpty(t, events)

			seen := make(map[string]bool, len(events))
			for i, ev := range events {
				assert.False(t, seen[ev.ID], "duplicate id %s", ev.ID)
				seen[ev.ID] = true
				assert.False(t, ev.Timestamp.After(now))
				if i > 0 {
					assert.False(t, ev.Timestamp.After(events[i-1].Timestamp), "activity must be newest first")
				}
			}
		})
	}
}

func TestStrategies_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s := &Staff{}
	assert.Equal(t, s.Activity(now), s.Activity(now))
	assert.Equal(t, s.Statistics(), s.Statistics())
}

func TestBase_EmptyContent(t *testing.T) {
	b := &Base{}
	assert.Empty(t, b.Statistics())
	assert.Empty(t, b.QuickActions())
	assert.Len(t, b.Activity(time.Now()), 1)
}
