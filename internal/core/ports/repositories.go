package ports

import (
	"context"
	"errors"

	"worldpath-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrDuplicateKey is returned by Create when the wallet id is already taken.
var ErrDuplicateKey = errors.New("duplicate wallet id")

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx participate in transaction blocks so ledger
// writes and gate checks share the mutation's transaction.
//
// Read methods return (nil, nil) when the wallet does not exist; callers
// decide whether that is a NotFound or an upsert trigger.
type WalletRepository interface {
	// UpsertProfile creates the wallet with zero balance and unauthorized
	// defaults, or updates name/phone/last_updated in place. Balance and
	// flags are never touched on the update path.
	UpsertProfile(ctx context.Context, walletID, name, phone string) (*domain.Wallet, error)
	GetByWalletID(ctx context.Context, walletID string) (*domain.Wallet, error)
	// GetByWalletIDForUpdate locks the row. Must be called within a transaction.
	GetByWalletIDForUpdate(ctx context.Context, tx pgx.Tx, walletID string) (*domain.Wallet, error)
	// ListAll returns every wallet, newest registration first.
	ListAll(ctx context.Context) ([]domain.Wallet, error)
	// Create inserts a fully specified wallet (admin manual creation).
	Create(ctx context.Context, w *domain.Wallet) error
	// ApplyBalanceDelta adds delta to the balance as a single conditional
	// increment. Returns (nil, nil) when the update matched no row, which
	// means either the wallet is absent or the result would be negative;
	// callers holding the row lock can tell the two apart.
	ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, walletID string, delta decimal.Decimal) (*domain.Wallet, error)
	SetAuthorized(ctx context.Context, walletID string, authorized bool) (*domain.Wallet, error)
	// Overwrite sets absolute field values; nil fields are left unchanged.
	Overwrite(ctx context.Context, tx pgx.Tx, walletID string, fields OverwriteFields) (*domain.Wallet, error)
	// Delete removes the wallet. Returns false when no row matched.
	Delete(ctx context.Context, walletID string) (bool, error)
}

// OverwriteFields holds the admin full-record edit. Balance here is an
// absolute value, unlike ApplyBalanceDelta.
type OverwriteFields struct {
	Name       *string
	Phone      *string
	Balance    *decimal.Decimal
	Authorized *bool
	Suspended  *bool
}

// InquiryRepository defines persistence operations for booking inquiries.
type InquiryRepository interface {
	// Create inserts the inquiry inside the submitting transaction so the
	// wallet gate check and the insert commit atomically.
	Create(ctx context.Context, tx pgx.Tx, inq *domain.Inquiry) error
	ListRecent(ctx context.Context, limit int) ([]domain.Inquiry, error)
	ListAll(ctx context.Context) ([]domain.Inquiry, error)
	// UpdateStatus flips the lifecycle state. Returns false when absent.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (bool, error)
}

// LedgerRepository appends and reads balance-mutation records.
type LedgerRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	// ListByWallet returns entries newest first.
	ListByWallet(ctx context.Context, walletID string) ([]domain.LedgerEntry, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
