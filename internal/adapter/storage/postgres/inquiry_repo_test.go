package postgres

import (
	"context"
	"testing"
	"time"

	"worldpath-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInquiry() *domain.Inquiry {
	return &domain.Inquiry{
		ID:        uuid.New(),
		WalletID:  "WP-ABC123",
		Name:      "Karim",
		Phone:     "+8801800000000",
		Portal:    "VFS Global",
		Country:   "Italy",
		Plan:      "Premium",
		Status:    domain.InquiryStatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func inquiryRow(inq *domain.Inquiry) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "wallet_id", "name", "phone", "portal", "country", "plan", "status", "created_at"}).
		AddRow(inq.ID, inq.WalletID, inq.Name, inq.Phone, inq.Portal, inq.Country, inq.Plan, string(inq.Status), inq.CreatedAt)
}

func TestInquiryRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInquiryRepo(mock)
	inq := newTestInquiry()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inquiries").
		WithArgs(inq.ID, inq.WalletID, inq.Name, inq.Phone,
			inq.Portal, inq.Country, inq.Plan, string(inq.Status), inq.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, inq)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepo_ListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInquiryRepo(mock)
	inq := newTestInquiry()

	mock.ExpectQuery("SELECT .+ FROM inquiries ORDER BY created_at DESC LIMIT").
		WithArgs(10).
		WillReturnRows(inquiryRow(inq))

	result, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, inq.ID, result[0].ID)
	assert.Equal(t, domain.InquiryStatusPending, result[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInquiryRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE inquiries SET status").
		WithArgs(id, "Active").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := repo.UpdateStatus(context.Background(), id, domain.InquiryStatusActive)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInquiryRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE inquiries SET status").
		WithArgs(id, "Active").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.UpdateStatus(context.Background(), id, domain.InquiryStatusActive)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}
