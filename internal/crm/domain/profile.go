package domain

// Profile is the current user as the dashboard sees it.
type Profile struct {
	User     User
	Role     Role
	Business Business
}
