package rbac

// Source says which rule produced a decision.
type Source string

const (
	SourceNone     Source = ""
	SourceOwner    Source = "owner"
	SourceMatrix   Source = "matrix"
	SourceImplicit Source = "implicit"
)

// Decision is the outcome of Decide.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Source  Source `json:"source,omitempty"`
	Reason  string `json:"reason"`
}

// implicitGrants are entries every role with the given name carries in
// addition to its stored permissions. They are scanned by the same matcher as
// stored entries.
var implicitGrants = map[string][]Permission{
	RoleOwner:   {{Resource: ResourceAll, Actions: []Action{ActionManage}}},
	RoleManager: {{Resource: ResourceReports, Actions: []Action{ActionRead}}},
}

// ImplicitGrants returns a copy of the entries granted to roleName by name.
func ImplicitGrants(roleName string) []Permission {
	grants := implicitGrants[roleName]
	if grants == nil {
		return nil
	}
	return Role{Permissions: grants}.Clone().Permissions
}

// Can reports whether role may perform action on resource.
func Can(role *Role, resource string, action Action) bool {
	return Decide(role, resource, action).Allowed
}

// Decide is Can with an explanation attached.
func Decide(role *Role, resource string, action Action) Decision {
	if role == nil {
		return Decision{Reason: "no role"}
	}
	if role.Name == RoleOwner {
		return Decision{Allowed: true, Source: SourceOwner, Reason: "owner bypass"}
	}

	act, ok := normalize(action)
	if !ok {
		return Decision{Reason: "unknown action"}
	}
	if resource == "" {
		return Decision{Reason: "empty resource"}
	}

	if matches(role.Permissions, resource, act) {
		return Decision{Allowed: true, Source: SourceMatrix, Reason: "granted by role permissions"}
	}
	if matches(implicitGrants[role.Name], resource, act) {
		return Decision{Allowed: true, Source: SourceImplicit, Reason: "granted to " + role.Name}
	}
	return Decision{Reason: "no matching grant"}
}

func matches(perms []Permission, resource string, action Action) bool {
	for _, p := range perms {
		if p.Resource != resource && p.Resource != ResourceAll {
			continue
		}
		if p.Has(action) || p.Has(ActionManage) {
			return true
		}
	}
	return false
}
