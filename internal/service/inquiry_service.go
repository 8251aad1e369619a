package service

import (
	"context"
	"time"

	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const recentInquiryLimit = 10

// InquiryServiceImpl implements ports.InquiryService. Submission is the one
// paid feature: the wallet gate is re-checked server side under a row lock so
// a stale client view can never slip an inquiry past a suspension or a
// balance drop.
type InquiryServiceImpl struct {
	walletRepo  ports.WalletRepository
	inquiryRepo ports.InquiryRepository
	transactor  ports.DBTransactor
	minBalance  decimal.Decimal
	log         zerolog.Logger
}

// NewInquiryService creates a new InquiryServiceImpl. minBalance is the
// paid-feature threshold from config.
func NewInquiryService(
	walletRepo ports.WalletRepository,
	inquiryRepo ports.InquiryRepository,
	transactor ports.DBTransactor,
	minBalance decimal.Decimal,
	log zerolog.Logger,
) *InquiryServiceImpl {
	return &InquiryServiceImpl{
		walletRepo:  walletRepo,
		inquiryRepo: inquiryRepo,
		transactor:  transactor,
		minBalance:  minBalance,
		log:         log.With().Str("component", "inquiry_service").Logger(),
	}
}

// Submit records a booking inquiry after re-validating the wallet gate
// inside the inserting transaction. Submission does not debit the balance;
// the threshold is an access gate, not a price.
func (s *InquiryServiceImpl) Submit(ctx context.Context, req ports.InquiryRequest) (*domain.Inquiry, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx)

	w, err := s.walletRepo.GetByWalletIDForUpdate(ctx, tx, req.WalletID)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(err)
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if w.Suspended {
		return nil, apperror.ErrWalletSuspended()
	}
	if !w.Authorized {
		return nil, apperror.ErrWalletNotAuthorized()
	}
	if !domain.CanAccessPaidFeature(w.Authorized, w.Suspended, w.Balance, s.minBalance) {
		return nil, apperror.ErrInsufficientBalance()
	}

	inq := &domain.Inquiry{
		ID:        uuid.New(),
		WalletID:  req.WalletID,
		Name:      req.Name,
		Phone:     req.Phone,
		Portal:    req.Portal,
		Country:   req.Country,
		Plan:      req.Plan,
		Status:    domain.InquiryStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.inquiryRepo.Create(ctx, tx, inq); err != nil {
		return nil, apperror.InternalError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().Str("wallet_id", req.WalletID).Str("inquiry_id", inq.ID.String()).Msg("inquiry submitted")
	return inq, nil
}

// RecentPublic returns the latest inquiries in redacted form for the public
// activity feed.
func (s *InquiryServiceImpl) RecentPublic(ctx context.Context) ([]domain.PublicInquiry, error) {
	inquiries, err := s.inquiryRepo.ListRecent(ctx, recentInquiryLimit)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	public := make([]domain.PublicInquiry, 0, len(inquiries))
	for i := range inquiries {
		public = append(public, inquiries[i].Public())
	}
	return public, nil
}
