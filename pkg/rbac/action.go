package rbac

import "strings"

// Action is something a role may do to a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// ActionManage implies every other action on the same resource.
	ActionManage Action = "manage"
)

// actionAliases maps UI vocabulary onto the canonical actions.
var actionAliases = map[Action]Action{
	"view":   ActionRead,
	"edit":   ActionUpdate,
	"add":    ActionCreate,
	"remove": ActionDelete,
}

// Actions returns the canonical actions in matrix column order.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage}
}

// Valid reports whether a is one of the canonical actions. Aliases are not
// valid on their own; see ParseAction.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage:
		return true
	}
	return false
}

// ParseAction resolves s to a canonical action, accepting aliases and any
// casing. The second return value is false for unknown input.
func ParseAction(s string) (Action, bool) {
	return normalize(Action(strings.ToLower(strings.TrimSpace(s))))
}

func normalize(a Action) (Action, bool) {
	if a.Valid() {
		return a, true
	}
	if canonical, ok := actionAliases[a]; ok {
		return canonical, true
	}
	return "", false
}
