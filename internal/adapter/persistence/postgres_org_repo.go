package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// PostgresOrganizationRepository implements OrganizationRepository using PostgreSQL
type PostgresOrganizationRepository struct {
	db *sql.DB
}

// NewPostgresOrganizationRepository creates a new PostgreSQL organization repository
func NewPostgresOrganizationRepository(db *sql.DB) ports.OrganizationRepository {
	return &PostgresOrganizationRepository{db: db}
}

// Create saves a new organization
func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `
		INSERT INTO organizations (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, org.ID, org.Name, org.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

// FindByID retrieves an organization by its ID
func (r *PostgresOrganizationRepository) FindByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `
		SELECT id, name, created_at
		FROM organizations
		WHERE id = $1
	`

	var org domain.Organization
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return &org, nil
}

// Update updates an existing organization
func (r *PostgresOrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	query := `UPDATE organizations SET name = $2 WHERE id = $1`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, org.ID, org.Name)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrOrganizationNotFound
	}
	return nil
}
