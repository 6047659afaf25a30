package rbac

import (
	"errors"
	"fmt"
	"slices"
)

// System role names. These roles are seeded for every business and cannot be
// edited through the API.
const (
	RoleOwner   = "Owner"
	RoleManager = "Manager"
	RoleAgent   = "Agent"
	RoleStaff   = "Staff"
)

// ErrInvalidPermission is returned by ValidatePermissions.
var ErrInvalidPermission = errors.New("rbac: invalid permission")

// Permission grants a set of actions on one resource.
type Permission struct {
	Resource string   `json:"resource"`
	Actions  []Action `json:"actions"`
}

// Has reports whether the entry lists a exactly. Manage is not expanded here.
func (p Permission) Has(a Action) bool {
	return slices.Contains(p.Actions, a)
}

// Role is a named bundle of permissions.
type Role struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions"`

	// System marks a role as immutable. It is an explicit attribute so that
	// servers and editors never have to infer it from the name.
	System bool `json:"system"`
}

// Clone returns a deep copy of r.
func (r Role) Clone() Role {
	out := r
	if r.Permissions != nil {
		out.Permissions = make([]Permission, len(r.Permissions))
		for i, p := range r.Permissions {
			out.Permissions[i] = Permission{Resource: p.Resource, Actions: slices.Clone(p.Actions)}
		}
	}
	return out
}

// Permission returns the entry for resource, if any.
func (r Role) Permission(resource string) (Permission, bool) {
	for _, p := range r.Permissions {
		if p.Resource == resource {
			return p, true
		}
	}
	return Permission{}, false
}

// IsSystemRoleName reports whether name is one of the reserved role names.
func IsSystemRoleName(name string) bool {
	switch name {
	case RoleOwner, RoleManager, RoleAgent, RoleStaff:
		return true
	}
	return false
}

// ValidatePermissions enforces the storage invariants: known resources, one
// entry per resource, at least one canonical action per entry and no
// duplicate actions.
func ValidatePermissions(perms []Permission) error {
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		if !IsResource(p.Resource) {
			return fmt.Errorf("%w: unknown resource %q", ErrInvalidPermission, p.Resource)
		}
		if _, dup := seen[p.Resource]; dup {
			return fmt.Errorf("%w: duplicate resource %q", ErrInvalidPermission, p.Resource)
		}
		seen[p.Resource] = struct{}{}

		if len(p.Actions) == 0 {
			return fmt.Errorf("%w: resource %q has no actions", ErrInvalidPermission, p.Resource)
		}
		actions := make(map[Action]struct{}, len(p.Actions))
		for _, a := range p.Actions {
			if !a.Valid() {
				return fmt.Errorf("%w: unknown action %q on %q", ErrInvalidPermission, a, p.Resource)
			}
			if _, dup := actions[a]; dup {
				return fmt.Errorf("%w: duplicate action %q on %q", ErrInvalidPermission, a, p.Resource)
			}
			actions[a] = struct{}{}
		}
	}
	return nil
}

// SystemRoles returns the roles seeded for a new business. Owner holds a
// wildcard manage grant so its reach is visible in the matrix rather than
// only implied by its name.
func SystemRoles() []Role {
	return []Role{
		{
			Name:        RoleOwner,
			Description: "Full access to the business",
			System:      true,
			Permissions: []Permission{
				{Resource: ResourceAll, Actions: []Action{ActionManage}},
			},
		},
		{
			Name:        RoleManager,
			Description: "Runs the sales team and sees reporting",
			System:      true,
			Permissions: []Permission{
				{Resource: ResourceLeads, Actions: []Action{ActionManage}},
				{Resource: ResourceContacts, Actions: []Action{ActionManage}},
				{Resource: ResourceMessages, Actions: []Action{ActionManage}},
				{Resource: ResourceInvoices, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
				{Resource: ResourceReports, Actions: []Action{ActionRead}},
				{Resource: ResourceUsers, Actions: []Action{ActionRead}},
				{Resource: ResourceTeams, Actions: []Action{ActionRead, ActionUpdate}},
				{Resource: ResourceWebhooks, Actions: []Action{ActionRead}},
			},
		},
		{
			Name:        RoleAgent,
			Description: "Works leads and talks to customers",
			System:      true,
			Permissions: []Permission{
				{Resource: ResourceLeads, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
				{Resource: ResourceContacts, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
				{Resource: ResourceMessages, Actions: []Action{ActionCreate, ActionRead}},
				{Resource: ResourceInvoices, Actions: []Action{ActionRead}},
			},
		},
		{
			Name:        RoleStaff,
			Description: "Read-only access to the pipeline",
			System:      true,
			Permissions: []Permission{
				{Resource: ResourceLeads, Actions: []Action{ActionRead}},
				{Resource: ResourceContacts, Actions: []Action{ActionRead}},
				{Resource: ResourceMessages, Actions: []Action{ActionRead}},
			},
		},
	}
}
