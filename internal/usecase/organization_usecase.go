package usecase

import (
	"context"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// UpdateOrganizationInput represents a partial organization update
type UpdateOrganizationInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

// OrganizationUseCase handles organization settings
type OrganizationUseCase struct {
	orgRepo  ports.OrganizationRepository
	userRepo ports.UserRepository
}

// NewOrganizationUseCase creates a new organization use case
func NewOrganizationUseCase(orgRepo ports.OrganizationRepository, userRepo ports.UserRepository) *OrganizationUseCase {
	return &OrganizationUseCase{orgRepo: orgRepo, userRepo: userRepo}
}

// GetOrganization retrieves the caller's own organization
func (uc *OrganizationUseCase) GetOrganization(ctx context.Context, id, callerOrgID string) (*domain.Organization, error) {
	if id != callerOrgID {
		return nil, domain.ErrAccessDenied
	}
	return uc.orgRepo.FindByID(ctx, id)
}

// UpdateOrganization renames the caller's own organization
func (uc *OrganizationUseCase) UpdateOrganization(ctx context.Context, id, callerOrgID string, in UpdateOrganizationInput) (*domain.Organization, error) {
	org, err := uc.GetOrganization(ctx, id, callerOrgID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		org.Name = *in.Name
	}

	if err := uc.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// ListMembers retrieves the users of the caller's organization
func (uc *OrganizationUseCase) ListMembers(ctx context.Context, organizationID string) ([]*domain.User, error) {
	users, err := uc.userRepo.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
