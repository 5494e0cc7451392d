package usecase

import (
	"context"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// CreateContactInput represents the request to create a contact
type CreateContactInput struct {
	Name  string  `json:"name" validate:"required,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateContactInput represents a partial contact update
type UpdateContactInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

// ContactUseCase handles contact CRUD scoped to an organization
type ContactUseCase struct {
	contactRepo ports.ContactRepository
}

// NewContactUseCase creates a new contact use case
func NewContactUseCase(contactRepo ports.ContactRepository) *ContactUseCase {
	return &ContactUseCase{contactRepo: contactRepo}
}

// ListContacts retrieves all contacts of an organization
func (uc *ContactUseCase) ListContacts(ctx context.Context, organizationID string) ([]*domain.Contact, error) {
	contacts, err := uc.contactRepo.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []*domain.Contact{}
	}
	return contacts, nil
}

// GetContact retrieves a contact scoped to the caller's organization
func (uc *ContactUseCase) GetContact(ctx context.Context, id, organizationID string) (*domain.Contact, error) {
	contact, err := uc.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.OrganizationID != organizationID {
		return nil, domain.ErrAccessDenied
	}
	return contact, nil
}

// CreateContact creates a new contact
func (uc *ContactUseCase) CreateContact(ctx context.Context, organizationID string, in CreateContactInput) (*domain.Contact, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	contact := domain.NewContact(organizationID, in.Name, in.Email, in.Phone)
	if err := uc.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// UpdateContact applies a partial update to a contact
func (uc *ContactUseCase) UpdateContact(ctx context.Context, id, organizationID string, in UpdateContactInput) (*domain.Contact, error) {
	contact, err := uc.GetContact(ctx, id, organizationID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		contact.Name = *in.Name
	}
	if in.Email != nil {
		contact.Email = in.Email
	}
	if in.Phone != nil {
		contact.Phone = in.Phone
	}

	if err := uc.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

// DeleteContact removes a contact
func (uc *ContactUseCase) DeleteContact(ctx context.Context, id, organizationID string) error {
	if _, err := uc.GetContact(ctx, id, organizationID); err != nil {
		return err
	}
	if err := uc.contactRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
