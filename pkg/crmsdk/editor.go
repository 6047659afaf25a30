package crmsdk

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

// ErrSystemRoleReadOnly is returned when editing a system role.
var ErrSystemRoleReadOnly = errors.New("crmsdk: system roles cannot be edited")

// RoleSaver persists a role. *Store implements it.
type RoleSaver interface {
	SaveRole(ctx context.Context, role Role) (Role, error)
}

// RoleEditor holds a draft of one role next to the last version the server
// confirmed. A failed save reverts the draft to that version.
type RoleEditor struct {
	saver RoleSaver

	mu    sync.Mutex
	saved Role
	draft Role
}

func NewRoleEditor(saver RoleSaver, role Role) *RoleEditor {
	return &RoleEditor{
		saver: saver,
		saved: cloneRole(role),
		draft: cloneRole(role),
	}
}

// Draft returns a copy of the role being edited.
func (e *RoleEditor) Draft() Role {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRole(e.draft)
}

// Saved returns a copy of the last server-confirmed role.
func (e *RoleEditor) Saved() Role {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRole(e.saved)
}

// Dirty reports whether the draft differs from the saved role.
func (e *RoleEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !samePermissions(e.draft.Permissions, e.saved.Permissions) ||
		e.draft.Name != e.saved.Name ||
		e.draft.Description != e.saved.Description
}

// Toggle flips one cell of the draft.
func (e *RoleEditor) Toggle(resource string, action rbac.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.saved.System {
		return ErrSystemRoleReadOnly
	}
	e.draft.Role = rbac.Toggle(e.draft.Role, resource, action)
	return nil
}

// Rename changes the draft's name and description.
func (e *RoleEditor) Rename(name, description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.saved.System {
		return ErrSystemRoleReadOnly
	}
	e.draft.Name = name
	e.draft.Description = description
	return nil
}

// Reset discards the draft.
func (e *RoleEditor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = cloneRole(e.saved)
}

// Save sends the draft. On success both draft and saved become the
// server's answer; on failure the draft reverts to saved and the error,
// whose message is meant for the user, is returned.
func (e *RoleEditor) Save(ctx context.Context) (Role, error) {
	e.mu.Lock()
	if e.saved.System {
		e.mu.Unlock()
		return Role{}, ErrSystemRoleReadOnly
	}
	draft := cloneRole(e.draft)
	e.mu.Unlock()

	stored, err := e.saver.SaveRole(ctx, draft)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.draft = cloneRole(e.saved)
		return Role{}, err
	}
	e.saved = cloneRole(stored)
	e.draft = cloneRole(stored)
	return cloneRole(stored), nil
}

func cloneRole(r Role) Role {
	r.Role = r.Role.Clone()
	return r
}

func samePermissions(a, b []rbac.Permission) bool {
	return slices.EqualFunc(a, b, func(x, y rbac.Permission) bool {
		return x.Resource == y.Resource && slices.Equal(x.Actions, y.Actions)
	})
}
