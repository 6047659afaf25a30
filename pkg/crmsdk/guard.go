package crmsdk

import (
	"slices"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

const (
	// LoginPath is where unauthenticated users are sent.
	LoginPath = "/login"
	// LandingPath is where authenticated users land, and where a route
	// they may not see sends them.
	LandingPath = "/dashboard"
)

// PublicPaths are only reachable without a session.
var PublicPaths = []string{"/login", "/register", "/forgot-password", "/otp"}

// IsPublicPath reports whether path is one of PublicPaths.
func IsPublicPath(path string) bool {
	return slices.Contains(PublicPaths, path)
}

// Predicate is a permission check over the caller's role, such as
// rbac.CanViewInvoices.
type Predicate func(*rbac.Role) bool

// Route describes one navigable page.
type Route struct {
	Path string

	// Allow, when set, must hold for an authenticated user to see the page.
	// A denied user is sent to LandingPath; when LandingPath itself denies,
	// the guard shows the placeholder instead of redirecting to itself.
	Allow Predicate
}

// Outcome is what the UI should do for a route.
type Outcome int

const (
	Render Outcome = iota
	// Placeholder is a neutral view shown while the session is loading.
	Placeholder
	Redirect
)

// Verdict is the result of Guard. RedirectTo is set for Redirect.
type Verdict struct {
	Outcome    Outcome
	RedirectTo string
}

// Guard decides how to handle a navigation to route in the given session.
// Protected routes never render before bootstrap finished.
func Guard(snap Snapshot, route Route) Verdict {
	if IsPublicPath(route.Path) {
		switch snap.Status {
		case StatusLoading:
			return Verdict{Outcome: Placeholder}
		case StatusAuthenticated:
			return Verdict{Outcome: Redirect, RedirectTo: LandingPath}
		default:
			return Verdict{Outcome: Render}
		}
	}

	switch snap.Status {
	case StatusLoading:
		return Verdict{Outcome: Placeholder}
	case StatusAuthenticated:
	default:
		return Verdict{Outcome: Redirect, RedirectTo: LoginPath}
	}

	if route.Allow != nil && !allowed(snap, route.Allow) {
		if route.Path == LandingPath {
			return Verdict{Outcome: Placeholder}
		}
		return Verdict{Outcome: Redirect, RedirectTo: LandingPath}
	}
	return Verdict{Outcome: Render}
}

// NavItem is a sidebar entry. Items without Allow are always shown.
type NavItem struct {
	Label string
	Path  string
	Allow Predicate
}

// FilterNav returns the items the session may see, in order. Denied items
// are omitted, not disabled.
func FilterNav(snap Snapshot, items []NavItem) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, it := range items {
		if it.Allow == nil || allowed(snap, it.Allow) {
			out = append(out, it)
		}
	}
	return out
}

func allowed(snap Snapshot, p Predicate) bool {
	r := snap.Role()
	if r == nil {
		return p(nil)
	}
	return p(&r.Role)
}
