package domain

// BootstrapData seeds the first business and its Owner.
type BootstrapData struct {
	BusinessName       string
	OwnerUsername      string
	OwnerPreferredName string
	OwnerPassword      string
}

// BootstrapResult reports what was created.
type BootstrapResult struct {
	Business Business
	Owner    User
	Roles    []Role
}
