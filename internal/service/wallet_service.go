package service

import (
	"context"
	"time"

	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService, the surface used by
// polling wallet clients.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	cache      ports.StatusCache
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, cache ports.StatusCache, cacheTTL time.Duration, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log.With().Str("component", "wallet_service").Logger(),
	}
}

// Sync upserts the caller's profile. A fresh wallet starts with zero balance
// and unauthorized flags; a repeat sync only refreshes name and phone.
func (s *WalletServiceImpl) Sync(ctx context.Context, req ports.SyncRequest) (*domain.Wallet, error) {
	if !domain.ValidWalletID(req.WalletID) {
		return nil, apperror.Validation("Invalid wallet id format")
	}

	w, err := s.walletRepo.UpsertProfile(ctx, req.WalletID, req.Name, req.Phone)
	if err != nil {
		s.log.Error().Err(err).Str("wallet_id", req.WalletID).Msg("profile sync failed")
		return nil, apperror.ErrStoreUnavailable(err)
	}

	return w, nil
}

// Status returns the redacted status view, reading through the cache.
// Cache failures degrade to a direct store read. A store failure is returned
// as SYS_001, never as an empty or zero-balance status.
func (s *WalletServiceImpl) Status(ctx context.Context, walletID string) (*domain.WalletStatus, error) {
	if cached, err := s.cache.Get(ctx, walletID); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", walletID).Msg("status cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	w, err := s.walletRepo.GetByWalletID(ctx, walletID)
	if err != nil {
		s.log.Error().Err(err).Str("wallet_id", walletID).Msg("status lookup failed")
		return nil, apperror.ErrStoreUnavailable(err)
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	status := w.Status()
	if err := s.cache.Set(ctx, walletID, status, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", walletID).Msg("status cache write failed")
	}

	return &status, nil
}
