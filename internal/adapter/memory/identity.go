// Package memory provides in-memory repository implementations. They back
// the unit tests and small single-node deployments; production runs on the
// PostgreSQL adapters behind the same ports.
package memory

import (
	"context"
	"sync"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

// OrganizationRepository is an in-memory implementation of ports.OrganizationRepository
type OrganizationRepository struct {
	mu   sync.RWMutex
	orgs map[string]domain.Organization
}

// NewOrganizationRepository creates an empty in-memory organization repository
func NewOrganizationRepository() *OrganizationRepository {
	return &OrganizationRepository{orgs: make(map[string]domain.Organization)}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orgs[org.ID] = *org
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	org, ok := r.orgs[id]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[org.ID]; !ok {
		return domain.ErrOrganizationNotFound
	}
	r.orgs[org.ID] = *org
	return nil
}

// UserRepository is an in-memory implementation of ports.UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []*domain.User
	for _, user := range r.users {
		if user.OrganizationID == organizationID {
			u := user
			users = append(users, &u)
		}
	}
	return users, nil
}

// RefreshTokenRepository is an in-memory implementation of ports.RefreshTokenRepository
type RefreshTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]domain.RefreshToken // keyed by opaque token value
}

// NewRefreshTokenRepository creates an empty in-memory refresh token repository
func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{tokens: make(map[string]domain.RefreshToken)}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = *token
	return nil
}

func (r *RefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrRefreshTokenNotFound
	}
	return &t, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return domain.ErrRefreshTokenNotFound
	}
	t.Revoked = true
	r.tokens[token] = t
	return nil
}

func (r *RefreshTokenRepository) RevokeByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.tokens {
		if t.UserID == userID {
			t.Revoked = true
			r.tokens[key] = t
		}
	}
	return nil
}

var (
	_ ports.OrganizationRepository = (*OrganizationRepository)(nil)
	_ ports.UserRepository         = (*UserRepository)(nil)
	_ ports.RefreshTokenRepository = (*RefreshTokenRepository)(nil)
)
