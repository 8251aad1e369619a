package service

import (
	"context"
	"testing"
	"time"

	"worldpath-wallet/internal/core/ports/mocks"
	"worldpath-wallet/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAdminAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAdminAuthService("operator", "$argon2id$hash", hashSvc, tokenSvc)

	expiry := time.Now().Add(time.Hour)
	hashSvc.EXPECT().Verify("hunter2", "$argon2id$hash").Return(true, nil)
	tokenSvc.EXPECT().Generate("operator").Return("jwt-token", expiry, nil)

	token, gotExpiry, err := svc.Login(context.Background(), "operator", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, gotExpiry)
}

func TestAdminAuthService_Login_WrongUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAdminAuthService("operator", "$argon2id$hash", hashSvc, tokenSvc)

	_, _, err := svc.Login(context.Background(), "intruder", "hunter2")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAdminAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAdminAuthService("operator", "$argon2id$hash", hashSvc, tokenSvc)

	hashSvc.EXPECT().Verify("wrong", "$argon2id$hash").Return(false, nil)

	_, _, err := svc.Login(context.Background(), "operator", "wrong")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAdminAuthService_Login_EmptyConfiguredHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAdminAuthService("operator", "", hashSvc, tokenSvc)

	_, _, err := svc.Login(context.Background(), "operator", "anything")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestArgon2HashService_RoundTrip(t *testing.T) {
	svc := NewArgon2HashService()

	hash, err := svc.Hash("s3cret")
	require.NoError(t, err)

	ok, err := svc.Verify("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2HashService_MalformedHash(t *testing.T) {
	svc := NewArgon2HashService()

	_, err := svc.Verify("x", "not-a-hash")
	assert.Error(t, err)
}

func TestJWTTokenService_RoundTrip(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "worldpath-wallet")

	token, expiry, err := svc.Generate("operator")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Username)
}

func TestJWTTokenService_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService("secret-a", time.Hour, "worldpath-wallet")
	other := NewJWTTokenService("secret-b", time.Hour, "worldpath-wallet")

	token, _, err := svc.Generate("operator")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", -time.Minute, "worldpath-wallet")

	token, _, err := svc.Generate("operator")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}
