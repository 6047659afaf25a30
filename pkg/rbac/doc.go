/*
Package rbac evaluates role-based access for the CRM dashboard.

A Role carries a list of Permission entries, one per resource, each holding
the actions granted on that resource. Evaluation is fail-closed: anything not
explicitly granted is denied, and bad input (nil roles, unknown actions, empty
resources) is denied rather than reported as an error.

	role := rbac.Role{
		Name: "Agent",
		Permissions: []rbac.Permission{
			{Resource: rbac.ResourceLeads, Actions: []rbac.Action{rbac.ActionRead, rbac.ActionUpdate}},
		},
	}

	rbac.Can(&role, rbac.ResourceLeads, rbac.ActionRead)   // true
	rbac.Can(&role, rbac.ResourceLeads, rbac.ActionDelete) // false

Rules, in order:

 1. A nil role is denied.
 2. The Owner role is allowed everything.
 3. An unknown action is denied. Aliases such as "view" are normalised first.
 4. An entry matches when its resource equals the requested resource or the
    wildcard "all". A match allows when it holds the action or "manage".

System role names also carry implicit grants that are scanned exactly like
stored entries (a Manager may always read reports). There is no second,
name-based code path: predicates such as CanViewReports only ever call Can.

Toggle edits a role the way the permission checkbox grid does and always
returns a copy, so callers can diff or discard the result.
*/
package rbac
