package postgres

import (
	"context"
	"fmt"

	"worldpath-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepo implements ports.LedgerRepository over the wallet_ledger table.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Create appends a ledger entry inside the mutation's transaction.
func (r *LedgerRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	query := `INSERT INTO wallet_ledger (id, wallet_id, delta, balance_after, source, actor, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.WalletID, entry.Delta.String(), entry.BalanceAfter.String(),
		string(entry.Source), entry.Actor, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListByWallet returns ledger entries for one wallet, newest first.
func (r *LedgerRepo) ListByWallet(ctx context.Context, walletID string) ([]domain.LedgerEntry, error) {
	query := `SELECT id, wallet_id, delta::text, balance_after::text, source, actor, created_at
		FROM wallet_ledger WHERE wallet_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return entries, nil
}

func scanLedgerEntry(rows pgx.Rows) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}
	var delta, after, source string
	err := rows.Scan(&e.ID, &e.WalletID, &delta, &after, &source, &e.Actor, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if e.Delta, err = decimal.NewFromString(delta); err != nil {
		return nil, fmt.Errorf("parse delta %q: %w", delta, err)
	}
	if e.BalanceAfter, err = decimal.NewFromString(after); err != nil {
		return nil, fmt.Errorf("parse balance_after %q: %w", after, err)
	}
	e.Source = domain.LedgerSource(source)
	return e, nil
}
