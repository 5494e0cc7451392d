package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// PostgresContactRepository implements ContactRepository using PostgreSQL
type PostgresContactRepository struct {
	db *sql.DB
}

// NewPostgresContactRepository creates a new PostgreSQL contact repository
func NewPostgresContactRepository(db *sql.DB) ports.ContactRepository {
	return &PostgresContactRepository{db: db}
}

// Create saves a new contact
func (r *PostgresContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, organization_id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		contact.ID,
		contact.OrganizationID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact by its ID
func (r *PostgresContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `
		SELECT id, organization_id, name, email, phone, created_at
		FROM contacts
		WHERE id = $1
	`

	var contact domain.Contact
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&contact.ID,
		&contact.OrganizationID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return &contact, nil
}

// FindAllByOrganization retrieves all contacts of an organization
func (r *PostgresContactRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.Contact, error) {
	query := `
		SELECT id, organization_id, name, email, phone, created_at
		FROM contacts
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		var contact domain.Contact
		err := rows.Scan(
			&contact.ID,
			&contact.OrganizationID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	return contacts, nil
}

// Update updates an existing contact
func (r *PostgresContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4
		WHERE id = $1
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Phone,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

// Delete removes a contact
func (r *PostgresContactRepository) Delete(ctx context.Context, id string) error {
	result, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}
