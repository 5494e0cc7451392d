package domain

import "errors"

// Sentinel errors returned by repositories and usecases. Anything else coming
// out of a repository is treated as a storage failure.
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrContactNotFound      = errors.New("contact not found")
	ErrWorkflowNotFound     = errors.New("workflow not found")
	ErrStageNotFound        = errors.New("stage not found")
	ErrDealNotFound         = errors.New("deal not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")

	ErrAccessDenied = errors.New("access denied")
)
