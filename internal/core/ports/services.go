package ports

import (
	"context"
	"time"

	"worldpath-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusCache is the Redis-layer read-through cache for wallet status.
// Cache failures are advisory: implementations return errors, callers log
// and fall through to the store.
type StatusCache interface {
	// Get returns the cached status or (nil, nil) on a miss.
	Get(ctx context.Context, walletID string) (*domain.WalletStatus, error)
	Set(ctx context.Context, walletID string, status domain.WalletStatus, ttl time.Duration) error
	// Invalidate drops the cached entry after any mutation of the wallet.
	Invalidate(ctx context.Context, walletID string) error
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles admin JWT token operations.
type TokenService interface {
	Generate(username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed admin JWT claims.
type TokenClaims struct {
	Username string
}

// --- Service Ports (Business Logic) ---

// WalletService is the self-service surface used by polling clients.
type WalletService interface {
	// Sync upserts the caller's profile; the only operation that creates a
	// wallet without an admin.
	Sync(ctx context.Context, req SyncRequest) (*domain.Wallet, error)
	// Status returns the redacted status view, 404-distinct when the wallet
	// is unknown so clients can tell "not registered" from a transient fault.
	Status(ctx context.Context, walletID string) (*domain.WalletStatus, error)
}

// SyncRequest holds validated input for profile sync.
type SyncRequest struct {
	WalletID string
	Name     string
	Phone    string
}

// AdminService is the privileged mutation surface.
type AdminService interface {
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, error)
	OverwriteWallet(ctx context.Context, walletID string, fields OverwriteFields, actor string) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, walletID string) error
	SetAuthorization(ctx context.Context, walletID string, authorized bool) (*domain.Wallet, error)
	// InjectBalance applies a signed delta; a result below zero is rejected,
	// never clamped.
	InjectBalance(ctx context.Context, walletID string, amount decimal.Decimal, actor string) (*domain.Wallet, error)
	WalletLedger(ctx context.Context, walletID string) ([]domain.LedgerEntry, error)
	ListInquiries(ctx context.Context) ([]domain.Inquiry, error)
	SetInquiryStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) error
}

// CreateWalletRequest holds input for admin manual wallet creation.
type CreateWalletRequest struct {
	WalletID   string // empty = generate
	Name       string
	Phone      string
	Balance    decimal.Decimal
	Authorized bool
}

// InquiryService handles paid booking inquiry submission and the public feed.
type InquiryService interface {
	Submit(ctx context.Context, req InquiryRequest) (*domain.Inquiry, error)
	RecentPublic(ctx context.Context) ([]domain.PublicInquiry, error)
}

// InquiryRequest holds validated input for inquiry submission.
type InquiryRequest struct {
	WalletID string
	Name     string
	Phone    string
	Portal   string
	Country  string
	Plan     string
}

// AdminAuthService authenticates the operator credential.
type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}
