// Package strategy holds the per-role dashboard content producers and the registry
// that selects one for a role.
package strategy

import (
	"sync"

	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

type constructor func() ports.ContentStrategy

// variants is the role -> variant dispatch table. Several administrative roles share
// the Staff variant on purpose.
var variants = map[domain.Role]constructor{
	domain.RoleStudent:       func() ports.ContentStrategy { return &Student{} },
	domain.RoleAcademicStaff: func() ports.ContentStrategy { return &Staff{} },
	domain.RoleHRPersonnel:   func() ports.ContentStrategy { return &Staff{} },
	domain.RoleFinanceStaff:  func() ports.ContentStrategy { return &Staff{} },
	domain.RoleMarketingTeam: func() ports.ContentStrategy { return &Staff{} },
	domain.RoleSystemAdmin:   func() ports.ContentStrategy { return &Admin{} },
}

// Registry lazily builds and memoizes one strategy per role.
type Registry struct {
	mu        sync.Mutex
	instances map[domain.Role]ports.ContentStrategy
}

func NewRegistry() *Registry {
	return &Registry{instances: make(map[domain.Role]ports.ContentStrategy)}
}

// Get returns the strategy for role. Unknown and empty roles resolve to Base.
func (r *Registry) Get(role domain.Role) ports.ContentStrategy {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.instances[role]; ok {
		return s
	}

	build, ok := variants[role]
	if !ok {
		build = func() ports.ContentStrategy { return &Base{} }
	}
	s := build()
	r.instances[role] = s
	return s
}
