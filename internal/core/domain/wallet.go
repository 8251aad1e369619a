package domain

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the per-identity prepaid balance record. The store row keyed by
// WalletID is the sole source of truth for balance and authorization state;
// every other copy (client session cache, admin console list) is a read-only
// view with an explicit revalidation path.
type Wallet struct {
	WalletID     string          `json:"wallet_id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Balance      decimal.Decimal `json:"balance"`
	Authorized   bool            `json:"authorized"`
	Suspended    bool            `json:"suspended"`
	RegisteredAt time.Time       `json:"registered_at"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// WalletStatus is the redacted view served to polling clients. Contact
// attributes never leave the admin surface.
type WalletStatus struct {
	Authorized bool            `json:"authorized"`
	Suspended  bool            `json:"suspended"`
	Balance    decimal.Decimal `json:"balance"`
}

// Status returns the redacted polling view of the wallet.
func (w *Wallet) Status() WalletStatus {
	return WalletStatus{
		Authorized: w.Authorized,
		Suspended:  w.Suspended,
		Balance:    w.Balance,
	}
}

const walletIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var walletIDRe = regexp.MustCompile(`^WP-[A-Z0-9]{6,12}$`)

// NewWalletID generates a wallet identifier of the form WP-XXXXXX.
func NewWalletID() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating wallet id: %w", err)
	}
	for i, b := range buf {
		buf[i] = walletIDAlphabet[int(b)%len(walletIDAlphabet)]
	}
	return "WP-" + string(buf), nil
}

// ValidWalletID reports whether id has the expected WP- shape.
func ValidWalletID(id string) bool {
	return walletIDRe.MatchString(id)
}

// CanAccessPaidFeature is the gating predicate shared by the client session
// and the server-side inquiry gate: authorized, not suspended, and balance
// at or above the feature threshold. Pure function of its inputs; callers
// must recompute it on every use rather than cache the result.
func CanAccessPaidFeature(authorized, suspended bool, balance, threshold decimal.Decimal) bool {
	return authorized && !suspended && balance.GreaterThanOrEqual(threshold)
}
