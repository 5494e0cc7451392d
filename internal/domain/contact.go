package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents a person a deal can be associated with.
type Contact struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewContact creates a new contact
func NewContact(organizationID, name string, email, phone *string) *Contact {
	return &Contact{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		Email:          email,
		Phone:          phone,
		CreatedAt:      time.Now(),
	}
}
