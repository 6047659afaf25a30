package rbac

// Protected resources of the CRM. ResourceAll is a wildcard that matches
// every resource when it appears in a Permission.
const (
	ResourceAll      = "all"
	ResourceLeads    = "leads"
	ResourceContacts = "contacts"
	ResourceMessages = "messages"
	ResourceInvoices = "invoices"
	ResourceReports  = "reports"
	ResourceUsers    = "users"
	ResourceRoles    = "roles"
	ResourceTeams    = "teams"
	ResourceSettings = "settings"
	ResourceWebhooks = "webhooks"
)

// Resources returns the concrete resources in display order. The wildcard
// is not included.
func Resources() []string {
	return []string{
		ResourceLeads,
		ResourceContacts,
		ResourceMessages,
		ResourceInvoices,
		ResourceReports,
		ResourceUsers,
		ResourceRoles,
		ResourceTeams,
		ResourceSettings,
		ResourceWebhooks,
	}
}

// IsResource reports whether name is a known resource or the wildcard.
func IsResource(name string) bool {
	if name == ResourceAll {
		return true
	}
	for _, r := range Resources() {
		if r == name {
			return true
		}
	}
	return false
}

// MatrixRow is one row of the permission grid.
type MatrixRow struct {
	Resource string   `json:"resource"`
	Actions  []Action `json:"actions"`
}

// Matrix returns the resource x action grid the role editor renders. Every
// resource accepts every action.
func Matrix() []MatrixRow {
	resources := Resources()
	rows := make([]MatrixRow, len(resources))
	for i, r := range resources {
		rows[i] = MatrixRow{Resource: r, Actions: Actions()}
	}
	return rows
}
