package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) UpsertProfile(ctx context.Context, walletID, name, phone string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if w, ok := r.wallets[walletID]; ok {
		w.Name = name
		w.Phone = phone
		w.LastUpdated = now
		cp := *w
		return &cp, nil
	}

	w := &domain.Wallet{
		WalletID:     walletID,
		Name:         name,
		Phone:        phone,
		RegisteredAt: now,
		LastUpdated:  now,
	}
	r.wallets[walletID] = w
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByWalletID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByWalletIDForUpdate(ctx context.Context, tx pgx.Tx, walletID string) (*domain.Wallet, error) {
	return r.GetByWalletID(ctx, walletID)
}

func (r *inMemoryWalletRepo) ListAll(ctx context.Context) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Wallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.WalletID]; ok {
		return ports.ErrDuplicateKey
	}
	cp := *w
	r.wallets[w.WalletID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, walletID string, delta decimal.Decimal) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return nil, nil
	}
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return nil, nil
	}
	w.Balance = next
	w.LastUpdated = time.Now().UTC()
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) SetAuthorized(ctx context.Context, walletID string, authorized bool) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return nil, nil
	}
	w.Authorized = authorized
	w.LastUpdated = time.Now().UTC()
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) Overwrite(ctx context.Context, tx pgx.Tx, walletID string, fields ports.OverwriteFields) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return nil, nil
	}
	if fields.Name != nil {
		w.Name = *fields.Name
	}
	if fields.Phone != nil {
		w.Phone = *fields.Phone
	}
	if fields.Balance != nil {
		w.Balance = *fields.Balance
	}
	if fields.Authorized != nil {
		w.Authorized = *fields.Authorized
	}
	if fields.Suspended != nil {
		w.Suspended = *fields.Suspended
	}
	w.LastUpdated = time.Now().UTC()
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) Delete(ctx context.Context, walletID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[walletID]; !ok {
		return false, nil
	}
	delete(r.wallets, walletID)
	return true, nil
}

// --- In-Memory Inquiry Repo ---

type inMemoryInquiryRepo struct {
	mu        sync.RWMutex
	inquiries []domain.Inquiry
}

func newInMemoryInquiryRepo() *inMemoryInquiryRepo {
	return &inMemoryInquiryRepo{}
}

func (r *inMemoryInquiryRepo) Create(ctx context.Context, tx pgx.Tx, inq *domain.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inquiries = append(r.inquiries, *inq)
	return nil
}

func (r *inMemoryInquiryRepo) ListRecent(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	all, _ := r.ListAll(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *inMemoryInquiryRepo) ListAll(ctx context.Context) ([]domain.Inquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Inquiry, len(r.inquiries))
	copy(out, r.inquiries)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryInquiryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.inquiries {
		if r.inquiries[i].ID == id {
			r.inquiries[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{}
}

func (r *inMemoryLedgerRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryLedgerRepo) ListByWallet(ctx context.Context, walletID string) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerEntry
	for _, e := range r.entries {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
