package ports

import (
	"context"

	"github.com/salesdeck/salesdeck/internal/domain"
)

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// Create saves a new organization
	Create(ctx context.Context, org *domain.Organization) error

	// FindByID retrieves an organization by its ID
	FindByID(ctx context.Context, id string) (*domain.Organization, error)

	// Update updates an existing organization
	Update(ctx context.Context, org *domain.Organization) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create saves a new user
	Create(ctx context.Context, user *domain.User) error

	// FindByID retrieves a user by its ID
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByEmail retrieves a user by email
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindAllByOrganization retrieves all users of an organization
	FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.User, error)
}

// RefreshTokenRepository defines the interface for refresh token persistence
type RefreshTokenRepository interface {
	// Create saves a new refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// FindByToken retrieves a refresh token by its opaque token value
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Revoke marks a refresh token as revoked
	Revoke(ctx context.Context, token string) error

	// RevokeByUser revokes all refresh tokens of a user
	RevokeByUser(ctx context.Context, userID string) error
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// Create saves a new contact
	Create(ctx context.Context, contact *domain.Contact) error

	// FindByID retrieves a contact by its ID
	FindByID(ctx context.Context, id string) (*domain.Contact, error)

	// FindAllByOrganization retrieves all contacts of an organization
	FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Contact, error)

	// Update updates an existing contact
	Update(ctx context.Context, contact *domain.Contact) error

	// Delete removes a contact
	Delete(ctx context.Context, id string) error
}

// WorkflowRepository defines the interface for workflow and stage
// persistence. It doubles as the stage registry: history enrichment and
// stage analytics resolve stage names and colors through it.
type WorkflowRepository interface {
	// Create saves a workflow together with its stages
	Create(ctx context.Context, workflow *domain.Workflow) error

	// FindByID retrieves a workflow with its stages ordered by position
	FindByID(ctx context.Context, id string) (*domain.Workflow, error)

	// FindAllByOrganization retrieves all workflows of an organization
	FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Workflow, error)

	// Update updates workflow attributes (not stages)
	Update(ctx context.Context, workflow *domain.Workflow) error

	// Delete removes a workflow and its stages
	Delete(ctx context.Context, id string) error

	// AddStage saves a new stage
	AddStage(ctx context.Context, stage *domain.Stage) error

	// UpdateStage updates an existing stage
	UpdateStage(ctx context.Context, stage *domain.Stage) error

	// DeleteStage removes a stage
	DeleteStage(ctx context.Context, id string) error

	// FindStageByID retrieves a single stage
	FindStageByID(ctx context.Context, id string) (*domain.Stage, error)
}

// DealRepository defines the interface for deal persistence
type DealRepository interface {
	// Create saves a new deal
	Create(ctx context.Context, deal *domain.Deal) error

	// FindByID retrieves a deal by its ID
	FindByID(ctx context.Context, id string) (*domain.Deal, error)

	// FindAllByOrganization retrieves all deals of an organization
	FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Deal, error)

	// Update updates an existing deal
	Update(ctx context.Context, deal *domain.Deal) error

	// Delete removes a deal
	Delete(ctx context.Context, id string) error
}

// StageHistoryRepository defines the interface for the stage transition
// ledger. Entries are append-only: there is no update operation.
type StageHistoryRepository interface {
	// Create appends a new history entry
	Create(ctx context.Context, entry *domain.StageHistoryEntry) error

	// FindByDeal retrieves a deal's entries ascending by changed_at, joined
	// with stage and user details
	FindByDeal(ctx context.Context, dealID string) ([]domain.StageHistoryDetail, error)

	// FindLastByDeal retrieves the most recent entry for a deal, or nil
	// when the deal has no history
	FindLastByDeal(ctx context.Context, dealID string) (*domain.StageHistoryEntry, error)

	// FindByOrganization retrieves the entries of all deals belonging to an
	// organization, ascending by changed_at
	FindByOrganization(ctx context.Context, organizationID string) ([]domain.StageHistoryDetail, error)

	// DeleteByDeal removes all entries for a deal; no error when none exist
	DeleteByDeal(ctx context.Context, dealID string) error
}
