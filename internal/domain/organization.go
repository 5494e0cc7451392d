package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant boundary. Every user, contact, workflow and deal
// belongs to exactly one organization.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewOrganization creates a new organization
func NewOrganization(name string) *Organization {
	return &Organization{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}
