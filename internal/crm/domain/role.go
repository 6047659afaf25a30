package domain

import (
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

// Role is a persisted rbac.Role scoped to one business.
type Role struct {
	ID         string
	BusinessID string
	rbac.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
