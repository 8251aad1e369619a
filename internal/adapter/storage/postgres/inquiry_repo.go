package postgres

import (
	"context"
	"fmt"

	"worldpath-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const inquiryColumns = `id, wallet_id, name, phone, portal, country, plan, status, created_at`

// InquiryRepo implements ports.InquiryRepository.
type InquiryRepo struct {
	pool Pool
}

// NewInquiryRepo creates a new InquiryRepo.
func NewInquiryRepo(pool Pool) *InquiryRepo {
	return &InquiryRepo{pool: pool}
}

func scanInquiry(row rowScanner) (*domain.Inquiry, error) {
	inq := &domain.Inquiry{}
	var status string
	err := row.Scan(
		&inq.ID, &inq.WalletID, &inq.Name, &inq.Phone,
		&inq.Portal, &inq.Country, &inq.Plan, &status, &inq.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	inq.Status = domain.InquiryStatus(status)
	return inq, nil
}

// Create inserts the inquiry inside the caller's transaction.
func (r *InquiryRepo) Create(ctx context.Context, tx pgx.Tx, inq *domain.Inquiry) error {
	query := `INSERT INTO inquiries (id, wallet_id, name, phone, portal, country, plan, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		inq.ID, inq.WalletID, inq.Name, inq.Phone,
		inq.Portal, inq.Country, inq.Plan, string(inq.Status), inq.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

// ListRecent returns the newest inquiries up to limit.
func (r *InquiryRepo) ListRecent(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent inquiries: %w", err)
	}
	defer rows.Close()

	return collectInquiries(rows)
}

// ListAll returns every inquiry, newest first.
func (r *InquiryRepo) ListAll(ctx context.Context) ([]domain.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	return collectInquiries(rows)
}

func collectInquiries(rows pgx.Rows) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry row: %w", err)
		}
		inquiries = append(inquiries, *inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiry rows: %w", err)
	}
	return inquiries, nil
}

// UpdateStatus flips the inquiry lifecycle state. Returns false when absent.
func (r *InquiryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE inquiries SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return false, fmt.Errorf("update inquiry status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
