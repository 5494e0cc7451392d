package password

import (
	"testing"
)

func TestBcryptService(t *testing.T) {
	service := NewBcryptService(4)

	t.Run("HashPassword", func(t *testing.T) {
		hash, err := service.HashPassword("test-password-123")
		if err != nil {
			t.Errorf("Failed to hash password: %v", err)
		}
		if hash == "" {
			t.Error("Hash should not be empty")
		}
	})

	t.Run("HashEmptyPassword", func(t *testing.T) {
		_, err := service.HashPassword("")
		if err == nil {
			t.Error("Should fail to hash empty password")
		}
	})

	t.Run("ComparePassword", func(t *testing.T) {
		password := "test-password-123"
		hash, err := service.HashPassword(password)
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}

		if err := service.ComparePassword(hash, password); err != nil {
			t.Errorf("Password should match: %v", err)
		}
	})

	t.Run("CompareWrongPassword", func(t *testing.T) {
		hash, err := service.HashPassword("test-password-123")
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}

		if err := service.ComparePassword(hash, "wrong-password-456"); err == nil {
			t.Error("Wrong password should not match")
		}
	})

	t.Run("CompareEmptyPassword", func(t *testing.T) {
		if err := service.ComparePassword("some-hash", ""); err == nil {
			t.Error("Should fail with empty password")
		}
	})

	t.Run("CompareEmptyHash", func(t *testing.T) {
		if err := service.ComparePassword("", "password"); err == nil {
			t.Error("Should fail with empty hash")
		}
	})
}

func TestBcryptService_DefaultCost(t *testing.T) {
	service := NewBcryptService(0)
	hash, err := service.HashPassword("password")
	if err != nil {
		t.Fatalf("Failed to hash with default cost: %v", err)
	}
	if err := service.ComparePassword(hash, "password"); err != nil {
		t.Errorf("Password should match: %v", err)
	}
}
