package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *sql.DB) ports.UserRepository {
	return &PostgresUserRepository{db: db}
}

// Create saves a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, organization_id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.OrganizationID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by its ID
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByEmail retrieves a user by email
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

// FindAllByOrganization retrieves all users of an organization
func (r *PostgresUserRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.User, error) {
	query := `
		SELECT id, organization_id, name, email, password_hash, created_at
		FROM users
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.OrganizationID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	query := `
		SELECT id, organization_id, name, email, password_hash, created_at
		FROM users
	` + where

	var user domain.User
	err := executor(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.OrganizationID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
