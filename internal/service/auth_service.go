package service

import (
	"context"
	"time"

	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/pkg/apperror"
)

// AdminAuthServiceImpl implements ports.AdminAuthService against the single
// operator credential from config. There is no admin user table: approval
// authority lives with one human operator, mirroring the WhatsApp-mediated
// approval flow the service fronts.
type AdminAuthServiceImpl struct {
	username     string
	passwordHash string
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
}

// NewAdminAuthService creates a new AdminAuthServiceImpl.
func NewAdminAuthService(username, passwordHash string, hashSvc ports.HashService, tokenSvc ports.TokenService) *AdminAuthServiceImpl {
	return &AdminAuthServiceImpl{
		username:     username,
		passwordHash: passwordHash,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
	}
}

// Login verifies the operator credential and returns a session token.
func (s *AdminAuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if username != s.username || s.passwordHash == "" {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, s.passwordHash)
	if err != nil || !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(err)
	}
	return token, expiry, nil
}
