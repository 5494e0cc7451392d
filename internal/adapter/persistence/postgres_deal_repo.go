package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// PostgresDealRepository implements DealRepository using PostgreSQL
type PostgresDealRepository struct {
	db *sql.DB
}

// NewPostgresDealRepository creates a new PostgreSQL deal repository
func NewPostgresDealRepository(db *sql.DB) ports.DealRepository {
	return &PostgresDealRepository{db: db}
}

// Create saves a new deal
func (r *PostgresDealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	query := `
		INSERT INTO deals (id, organization_id, contact_id, stage_id, title, value, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		deal.ID,
		deal.OrganizationID,
		deal.ContactID,
		deal.StageID,
		deal.Title,
		deal.Value,
		string(deal.Status),
		deal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

// FindByID retrieves a deal by its ID
func (r *PostgresDealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	query := `
		SELECT id, organization_id, contact_id, stage_id, title, value, status, created_at
		FROM deals
		WHERE id = $1
	`

	var deal domain.Deal
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&deal.ID,
		&deal.OrganizationID,
		&deal.ContactID,
		&deal.StageID,
		&deal.Title,
		&deal.Value,
		&deal.Status,
		&deal.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to find deal: %w", err)
	}
	return &deal, nil
}

// FindAllByOrganization retrieves all deals of an organization
func (r *PostgresDealRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Deal, error) {
	query := `
		SELECT id, organization_id, contact_id, stage_id, title, value, status, created_at
		FROM deals
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		var deal domain.Deal
		err := rows.Scan(
			&deal.ID,
			&deal.OrganizationID,
			&deal.ContactID,
			&deal.StageID,
			&deal.Title,
			&deal.Value,
			&deal.Status,
			&deal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, &deal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deals: %w", err)
	}
	return deals, nil
}

// Update updates an existing deal
func (r *PostgresDealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	query := `
		UPDATE deals
		SET contact_id = $2, stage_id = $3, title = $4, value = $5, status = $6
		WHERE id = $1
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		deal.ID,
		deal.ContactID,
		deal.StageID,
		deal.Title,
		deal.Value,
		string(deal.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

// Delete removes a deal; history rows cascade at the schema level
func (r *PostgresDealRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM deals WHERE id = $1`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}
