package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptService hashes and verifies passwords with bcrypt
type BcryptService struct {
	cost int
}

// NewBcryptService creates a bcrypt password service; cost 0 selects the
// library default.
func NewBcryptService(cost int) *BcryptService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptService{cost: cost}
}

// HashPassword hashes a plaintext password
func (s *BcryptService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword compares a hash against a plaintext password
func (s *BcryptService) ComparePassword(hashedPassword, password string) error {
	if hashedPassword == "" || password == "" {
		return fmt.Errorf("passwords cannot be empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
