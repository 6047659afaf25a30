package rbac

// Shorthands used to gate navigation and page affordances. Each is a fixed
// call into Can.

func CanViewLeads(r *Role) bool      { return Can(r, ResourceLeads, ActionRead) }
func CanManageLeads(r *Role) bool    { return Can(r, ResourceLeads, ActionManage) }
func CanViewContacts(r *Role) bool   { return Can(r, ResourceContacts, ActionRead) }
func CanSendMessages(r *Role) bool   { return Can(r, ResourceMessages, ActionCreate) }
func CanViewInvoices(r *Role) bool   { return Can(r, ResourceInvoices, ActionRead) }
func CanManageInvoices(r *Role) bool { return Can(r, ResourceInvoices, ActionManage) }
func CanViewUsers(r *Role) bool      { return Can(r, ResourceUsers, ActionRead) }
func CanManageUsers(r *Role) bool    { return Can(r, ResourceUsers, ActionManage) }
func CanViewRoles(r *Role) bool      { return Can(r, ResourceRoles, ActionRead) }
func CanManageRoles(r *Role) bool    { return Can(r, ResourceRoles, ActionManage) }
func CanManageTeams(r *Role) bool    { return Can(r, ResourceTeams, ActionManage) }
func CanManageSettings(r *Role) bool { return Can(r, ResourceSettings, ActionManage) }
func CanManageWebhooks(r *Role) bool { return Can(r, ResourceWebhooks, ActionManage) }

// CanViewReports is true for Managers even without a reports entry, through
// the Manager implicit grant.
func CanViewReports(r *Role) bool { return Can(r, ResourceReports, ActionRead) }
