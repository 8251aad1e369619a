package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerSource identifies which mutation path produced a ledger entry.
type LedgerSource string

const (
	LedgerSourceInjection LedgerSource = "admin_injection"
	LedgerSourceOverwrite LedgerSource = "admin_overwrite"
)

// LedgerEntry is one append-only record of a balance mutation. Entries are
// written in the same database transaction as the mutation itself, so the
// running BalanceAfter column always reconciles with the wallet row.
type LedgerEntry struct {
	ID           uuid.UUID       `json:"id"`
	WalletID     string          `json:"wallet_id"`
	Delta        decimal.Decimal `json:"delta"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Source       LedgerSource    `json:"source"`
	Actor        string          `json:"actor"`
	CreatedAt    time.Time       `json:"created_at"`
}
