package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/domain"
	"github.com/salesdeck/salesdeck/internal/ports"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// RegisterInput represents the request to register a new account
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents a login request
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is an access token plus the refresh token to renew it with.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse represents a successful register/login/refresh
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token TokenPair    `json:"token"`
}

// AuthUseCase handles registration, login and refresh token rotation.
// Registration bootstraps a whole tenant: the organization, its default
// "Sales Pipeline" workflow and the first user are created together.
type AuthUseCase struct {
	userRepo     ports.UserRepository
	orgRepo      ports.OrganizationRepository
	workflowRepo ports.WorkflowRepository
	refreshRepo  ports.RefreshTokenRepository
	tokens       ports.TokenService
	passwords    ports.PasswordService
	tx           ports.TxManager
	logger       *logrus.Logger
	now          func() time.Time
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(
	userRepo ports.UserRepository,
	orgRepo ports.OrganizationRepository,
	workflowRepo ports.WorkflowRepository,
	refreshRepo ports.RefreshTokenRepository,
	tokens ports.TokenService,
	passwords ports.PasswordService,
	tx ports.TxManager,
	logger *logrus.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		orgRepo:      orgRepo,
		workflowRepo: workflowRepo,
		refreshRepo:  refreshRepo,
		tokens:       tokens,
		passwords:    passwords,
		tx:           tx,
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates an organization, its default workflow and the first user
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	existing, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := uc.passwords.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	org := domain.NewOrganization(fmt.Sprintf("%s's Organization", in.Name))
	user := domain.NewUser(org.ID, in.Name, in.Email, hash)

	workflow := domain.NewWorkflow(org.ID, "Sales Pipeline")
	for _, seed := range domain.DefaultPipelineStages() {
		workflow.Stages = append(workflow.Stages, *domain.NewStage(workflow.ID, seed.Name, seed.Position, seed.Color))
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.orgRepo.Create(ctx, org); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		if err := uc.workflowRepo.Create(ctx, workflow); err != nil {
			return fmt.Errorf("failed to create default workflow: %w", err)
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pair, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"user_id":         user.ID,
		"organization_id": org.ID,
	}).Info("Account registered")

	return &AuthResponse{User: user, Token: pair}, nil
}

// Login authenticates an email/password pair
func (uc *AuthUseCase) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := uc.passwords.ComparePassword(user.PasswordHash, in.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Token: pair}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	stored, err := uc.refreshRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored.Revoked {
		return nil, domain.ErrRefreshTokenRevoked
	}
	if stored.Expired(uc.now()) {
		return nil, domain.ErrRefreshTokenExpired
	}

	user, err := uc.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := uc.refreshRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	pair, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Token: pair}, nil
}

// Logout revokes a refresh token. Revoking an unknown token is not an error.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	if err := uc.refreshRepo.Revoke(ctx, refreshToken); err != nil && err != domain.ErrRefreshTokenNotFound {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Me retrieves the authenticated user's profile
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return uc.userRepo.FindByID(ctx, userID)
}

func (uc *AuthUseCase) issueTokens(ctx context.Context, user *domain.User) (TokenPair, error) {
	access, err := uc.tokens.GenerateAccessToken(ports.TokenClaims{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := uc.tokens.GenerateRefreshToken()
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := domain.NewRefreshToken(user.ID, refresh, uc.now().Add(refreshTokenTTL))
	if err := uc.refreshRepo.Create(ctx, record); err != nil {
		return TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
