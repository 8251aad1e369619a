package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/internal/core/ports/mocks"
	"worldpath-wallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testCacheTTL = 5 * time.Second

func newTestWallet(walletID string) *domain.Wallet {
	now := time.Now().UTC()
	return &domain.Wallet{
		WalletID:     walletID,
		Name:         "Amadou Diallo",
		Phone:        "+224620000001",
		Balance:      decimal.RequireFromString("1500.00"),
		Authorized:   true,
		RegisteredAt: now,
		LastUpdated:  now,
	}
}

func TestWalletService_Sync_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	want := newTestWallet("WP-ABC234")
	walletRepo.EXPECT().
		UpsertProfile(gomock.Any(), "WP-ABC234", "Amadou Diallo", "+224620000001").
		Return(want, nil)

	got, err := svc.Sync(context.Background(), ports.SyncRequest{
		WalletID: "WP-ABC234",
		Name:     "Amadou Diallo",
		Phone:    "+224620000001",
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWalletService_Sync_InvalidWalletID(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	for _, id := range []string{"", "ABC234", "WP-abc234", "WP-AB", "wp-ABC234"} {
		_, err := svc.Sync(context.Background(), ports.SyncRequest{WalletID: id, Name: "x", Phone: "y"})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr, "id %q", id)
		assert.Equal(t, "WLT_002", appErr.Code)
	}
}

func TestWalletService_Sync_StoreDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	walletRepo.EXPECT().
		UpsertProfile(gomock.Any(), "WP-ABC234", "x", "y").
		Return(nil, errors.New("connection refused"))

	_, err := svc.Sync(context.Background(), ports.SyncRequest{WalletID: "WP-ABC234", Name: "x", Phone: "y"})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestWalletService_Status_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	cached := &domain.WalletStatus{Authorized: true, Balance: decimal.RequireFromString("1500.00")}
	cache.EXPECT().Get(gomock.Any(), "WP-ABC234").Return(cached, nil)

	got, err := svc.Status(context.Background(), "WP-ABC234")

	require.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestWalletService_Status_CacheMissReadsStoreAndFills(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	w := newTestWallet("WP-ABC234")
	cache.EXPECT().Get(gomock.Any(), "WP-ABC234").Return(nil, nil)
	walletRepo.EXPECT().GetByWalletID(gomock.Any(), "WP-ABC234").Return(w, nil)
	cache.EXPECT().Set(gomock.Any(), "WP-ABC234", w.Status(), testCacheTTL).Return(nil)

	got, err := svc.Status(context.Background(), "WP-ABC234")

	require.NoError(t, err)
	assert.True(t, got.Authorized)
	assert.True(t, got.Balance.Equal(w.Balance))
}

func TestWalletService_Status_CacheFailureFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	w := newTestWallet("WP-ABC234")
	cache.EXPECT().Get(gomock.Any(), "WP-ABC234").Return(nil, errors.New("redis down"))
	walletRepo.EXPECT().GetByWalletID(gomock.Any(), "WP-ABC234").Return(w, nil)
	cache.EXPECT().Set(gomock.Any(), "WP-ABC234", w.Status(), testCacheTTL).Return(errors.New("redis down"))

	got, err := svc.Status(context.Background(), "WP-ABC234")

	require.NoError(t, err)
	assert.True(t, got.Authorized)
}

func TestWalletService_Status_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	cache.EXPECT().Get(gomock.Any(), "WP-GONE99").Return(nil, nil)
	walletRepo.EXPECT().GetByWalletID(gomock.Any(), "WP-GONE99").Return(nil, nil)

	_, err := svc.Status(context.Background(), "WP-GONE99")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_001", appErr.Code)
}

func TestWalletService_Status_StoreDownIsNotZeroBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)
	svc := NewWalletService(walletRepo, cache, testCacheTTL, zerolog.Nop())

	cache.EXPECT().Get(gomock.Any(), "WP-ABC234").Return(nil, nil)
	walletRepo.EXPECT().GetByWalletID(gomock.Any(), "WP-ABC234").Return(nil, errors.New("connection refused"))

	status, err := svc.Status(context.Background(), "WP-ABC234")

	assert.Nil(t, status)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}
