package postgres

import (
	"context"
	"errors"
	"fmt"

	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const walletColumns = `wallet_id, name, phone, balance::text, authorized, suspended, registered_at, last_updated`

// WalletRepo implements ports.WalletRepository.
//
// Balances are NUMERIC(14,2) in Postgres and decimal.Decimal in Go; they
// cross the wire as text so no float ever touches a monetary value.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	var balance string
	err := row.Scan(
		&w.WalletID, &w.Name, &w.Phone, &balance,
		&w.Authorized, &w.Suspended, &w.RegisteredAt, &w.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	w.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	return w, nil
}

// UpsertProfile creates the wallet with defaults or refreshes name/phone.
// The update path never touches balance or the authorization flags, so a
// repeated sync is idempotent apart from last_updated.
func (r *WalletRepo) UpsertProfile(ctx context.Context, walletID, name, phone string) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (wallet_id, name, phone, balance, authorized, suspended, registered_at, last_updated)
		VALUES ($1, $2, $3, 0, FALSE, FALSE, now(), now())
		ON CONFLICT (wallet_id) DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone, last_updated = now()
		RETURNING ` + walletColumns

	w, err := scanWallet(r.pool.QueryRow(ctx, query, walletID, name, phone))
	if err != nil {
		return nil, fmt.Errorf("upsert wallet profile: %w", err)
	}
	return w, nil
}

// GetByWalletID fetches a wallet without locking. Returns (nil, nil) when absent.
func (r *WalletRepo) GetByWalletID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

// GetByWalletIDForUpdate fetches a wallet with a row lock.
// Must be called within a transaction.
func (r *WalletRepo) GetByWalletIDForUpdate(ctx context.Context, tx pgx.Tx, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1 FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// ListAll returns every wallet, newest registration first.
func (r *WalletRepo) ListAll(ctx context.Context) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets ORDER BY registered_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

// Create inserts a fully specified wallet. A duplicate wallet_id maps to
// ports.ErrDuplicateKey.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (wallet_id, name, phone, balance, authorized, suspended, registered_at, last_updated)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		w.WalletID, w.Name, w.Phone, w.Balance.String(),
		w.Authorized, w.Suspended, w.RegisteredAt, w.LastUpdated,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ports.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// ApplyBalanceDelta adds delta to the balance as one conditional increment.
// The WHERE clause rejects a negative result without touching the row, and
// the arithmetic happens inside the UPDATE itself, so concurrent deltas can
// never lose an update. Returns (nil, nil) when no row matched.
func (r *WalletRepo) ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, walletID string, delta decimal.Decimal) (*domain.Wallet, error) {
	query := `UPDATE wallets
		SET balance = balance + $2::numeric, last_updated = now()
		WHERE wallet_id = $1 AND balance + $2::numeric >= 0
		RETURNING ` + walletColumns

	w, err := scanWallet(tx.QueryRow(ctx, query, walletID, delta.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("apply balance delta: %w", err)
	}
	return w, nil
}

// SetAuthorized flips the authorization flag. Returns (nil, nil) when absent.
func (r *WalletRepo) SetAuthorized(ctx context.Context, walletID string, authorized bool) (*domain.Wallet, error) {
	query := `UPDATE wallets SET authorized = $2, last_updated = now()
		WHERE wallet_id = $1
		RETURNING ` + walletColumns

	w, err := scanWallet(r.pool.QueryRow(ctx, query, walletID, authorized))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("set authorized: %w", err)
	}
	return w, nil
}

// Overwrite sets absolute field values; nil fields keep their stored value.
// Must be called within a transaction so the ledger entry for the balance
// change commits with it.
func (r *WalletRepo) Overwrite(ctx context.Context, tx pgx.Tx, walletID string, fields ports.OverwriteFields) (*domain.Wallet, error) {
	query := `UPDATE wallets SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			balance = COALESCE($4::numeric, balance),
			authorized = COALESCE($5, authorized),
			suspended = COALESCE($6, suspended),
			last_updated = now()
		WHERE wallet_id = $1
		RETURNING ` + walletColumns

	var balance *string
	if fields.Balance != nil {
		s := fields.Balance.String()
		balance = &s
	}

	w, err := scanWallet(tx.QueryRow(ctx, query,
		walletID, fields.Name, fields.Phone, balance, fields.Authorized, fields.Suspended,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("overwrite wallet: %w", err)
	}
	return w, nil
}

// Delete removes the wallet. Returns false when no row matched.
func (r *WalletRepo) Delete(ctx context.Context, walletID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE wallet_id = $1`, walletID)
	if err != nil {
		return false, fmt.Errorf("delete wallet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
