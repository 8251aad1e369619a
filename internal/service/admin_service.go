package service

import (
	"context"
	"errors"
	"time"

	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AdminServiceImpl implements ports.AdminService, the privileged mutation
// surface behind the operator JWT. Every balance mutation runs inside a
// transaction that also appends a ledger entry, and every successful wallet
// mutation invalidates the status cache so the next client poll observes it.
type AdminServiceImpl struct {
	walletRepo  ports.WalletRepository
	inquiryRepo ports.InquiryRepository
	ledgerRepo  ports.LedgerRepository
	cache       ports.StatusCache
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(
	walletRepo ports.WalletRepository,
	inquiryRepo ports.InquiryRepository,
	ledgerRepo ports.LedgerRepository,
	cache ports.StatusCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		walletRepo:  walletRepo,
		inquiryRepo: inquiryRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
		transactor:  transactor,
		log:         log.With().Str("component", "admin_service").Logger(),
	}
}

// ListWallets returns every wallet, full records, newest registration first.
func (s *AdminServiceImpl) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return wallets, nil
}

// CreateWallet inserts a fully specified wallet. An empty WalletID means
// the service generates one.
func (s *AdminServiceImpl) CreateWallet(ctx context.Context, req ports.CreateWalletRequest) (*domain.Wallet, error) {
	walletID := req.WalletID
	if walletID == "" {
		var err error
		walletID, err = domain.NewWalletID()
		if err != nil {
			return nil, apperror.InternalError(err)
		}
	} else if !domain.ValidWalletID(walletID) {
		return nil, apperror.Validation("Invalid wallet id format")
	}

	if req.Balance.IsNegative() {
		return nil, apperror.ErrInvalidAmount()
	}

	now := time.Now().UTC()
	w := &domain.Wallet{
		WalletID:     walletID,
		Name:         req.Name,
		Phone:        req.Phone,
		Balance:      req.Balance,
		Authorized:   req.Authorized,
		RegisteredAt: now,
		LastUpdated:  now,
	}

	if err := s.walletRepo.Create(ctx, w); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return nil, apperror.ErrWalletExists()
		}
		return nil, apperror.InternalError(err)
	}

	s.log.Info().Str("wallet_id", w.WalletID).Msg("wallet created")
	return w, nil
}

// OverwriteWallet applies an absolute full-record edit. When the balance is
// part of the edit, the implied delta is recorded in the ledger within the
// same transaction.
func (s *AdminServiceImpl) OverwriteWallet(ctx context.Context, walletID string, fields ports.OverwriteFields, actor string) (*domain.Wallet, error) {
	if fields.Balance != nil && fields.Balance.IsNegative() {
		return nil, apperror.ErrNegativeBalance()
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx)

	before, err := s.walletRepo.GetByWalletIDForUpdate(ctx, tx, walletID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if before == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	after, err := s.walletRepo.Overwrite(ctx, tx, walletID, fields)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	if fields.Balance != nil {
		entry := &domain.LedgerEntry{
			ID:           uuid.New(),
			WalletID:     walletID,
			Delta:        after.Balance.Sub(before.Balance),
			BalanceAfter: after.Balance,
			Source:       domain.LedgerSourceOverwrite,
			Actor:        actor,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.ledgerRepo.Create(ctx, tx, entry); err != nil {
			return nil, apperror.InternalError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.invalidateStatus(ctx, walletID)
	s.log.Info().Str("wallet_id", walletID).Str("actor", actor).Msg("wallet overwritten")
	return after, nil
}

// DeleteWallet removes the wallet and its dependent rows.
func (s *AdminServiceImpl) DeleteWallet(ctx context.Context, walletID string) error {
	deleted, err := s.walletRepo.Delete(ctx, walletID)
	if err != nil {
		return apperror.InternalError(err)
	}
	if !deleted {
		return apperror.ErrWalletNotFound()
	}

	s.invalidateStatus(ctx, walletID)
	s.log.Info().Str("wallet_id", walletID).Msg("wallet deleted")
	return nil
}

// SetAuthorization flips the authorized flag.
func (s *AdminServiceImpl) SetAuthorization(ctx context.Context, walletID string, authorized bool) (*domain.Wallet, error) {
	w, err := s.walletRepo.SetAuthorized(ctx, walletID, authorized)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	s.invalidateStatus(ctx, walletID)
	s.log.Info().Str("wallet_id", walletID).Bool("authorized", authorized).Msg("authorization updated")
	return w, nil
}

// InjectBalance applies a signed delta as a single atomic increment.
// A delta that would take the balance below zero is rejected with WLT_004
// and leaves the stored balance untouched.
func (s *AdminServiceImpl) InjectBalance(ctx context.Context, walletID string, amount decimal.Decimal, actor string) (*domain.Wallet, error) {
	if amount.IsZero() {
		return nil, apperror.ErrInvalidAmount()
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx)

	locked, err := s.walletRepo.GetByWalletIDForUpdate(ctx, tx, walletID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if locked == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	updated, err := s.walletRepo.ApplyBalanceDelta(ctx, tx, walletID, amount)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if updated == nil {
		// Row is locked and present, so the only way the conditional
		// increment matched nothing is a would-be negative result.
		return nil, apperror.ErrNegativeBalance()
	}

	entry := &domain.LedgerEntry{
		ID:           uuid.New(),
		WalletID:     walletID,
		Delta:        amount,
		BalanceAfter: updated.Balance,
		Source:       domain.LedgerSourceInjection,
		Actor:        actor,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.ledgerRepo.Create(ctx, tx, entry); err != nil {
		return nil, apperror.InternalError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.invalidateStatus(ctx, walletID)
	s.log.Info().
		Str("wallet_id", walletID).
		Str("delta", amount.String()).
		Str("balance_after", updated.Balance.String()).
		Str("actor", actor).
		Msg("balance injected")
	return updated, nil
}

// WalletLedger returns the wallet's balance mutation history, newest first.
func (s *AdminServiceImpl) WalletLedger(ctx context.Context, walletID string) ([]domain.LedgerEntry, error) {
	w, err := s.walletRepo.GetByWalletID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	entries, err := s.ledgerRepo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return entries, nil
}

// ListInquiries returns every inquiry with full contact details.
func (s *AdminServiceImpl) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	inquiries, err := s.inquiryRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return inquiries, nil
}

// SetInquiryStatus flips an inquiry's lifecycle state.
func (s *AdminServiceImpl) SetInquiryStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) error {
	updated, err := s.inquiryRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return apperror.InternalError(err)
	}
	if !updated {
		return apperror.ErrNotFound("Inquiry")
	}
	return nil
}

// invalidateStatus drops the cached status after a mutation. Failure is
// logged only: the TTL bounds staleness to under one poll interval.
func (s *AdminServiceImpl) invalidateStatus(ctx context.Context, walletID string) {
	if err := s.cache.Invalidate(ctx, walletID); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", walletID).Msg("status cache invalidation failed")
	}
}
