package rbac

import "slices"

// Toggle flips one cell of the permission grid and returns the edited copy.
//
// If the resource entry holds the action it is removed, and an entry left
// with no actions is dropped. Otherwise the action is appended, creating the
// entry when needed. Unknown actions and empty resources return an unchanged
// copy. Toggle knows nothing about system roles; callers gate that.
func Toggle(role Role, resource string, action Action) Role {
	out := role.Clone()

	act, ok := normalize(action)
	if !ok || resource == "" {
		return out
	}

	for i, p := range out.Permissions {
		if p.Resource != resource {
			continue
		}
		if at := slices.Index(p.Actions, act); at >= 0 {
			p.Actions = slices.Delete(p.Actions, at, at+1)
			if len(p.Actions) == 0 {
				out.Permissions = slices.Delete(out.Permissions, i, i+1)
			} else {
				out.Permissions[i] = p
			}
			return out
		}
		out.Permissions[i].Actions = append(p.Actions, act)
		return out
	}

	out.Permissions = append(out.Permissions, Permission{Resource: resource, Actions: []Action{act}})
	return out
}
