package domain

import "time"

// Business is a tenant. Every user and role belongs to exactly one.
type Business struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
