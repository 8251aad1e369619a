package service

import (
	"context"
	"testing"
	"time"

	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/internal/core/ports/mocks"
	"worldpath-wallet/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testMinBalance = decimal.RequireFromString("1000.00")

type inquiryFixture struct {
	walletRepo  *mocks.MockWalletRepository
	inquiryRepo *mocks.MockInquiryRepository
	transactor  *mocks.MockDBTransactor
	svc         *InquiryServiceImpl
}

func newInquiryFixture(t *testing.T) *inquiryFixture {
	ctrl := gomock.NewController(t)
	f := &inquiryFixture{
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		inquiryRepo: mocks.NewMockInquiryRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
	}
	f.svc = NewInquiryService(f.walletRepo, f.inquiryRepo, f.transactor, testMinBalance, zerolog.Nop())
	return f
}

func testInquiryRequest() ports.InquiryRequest {
	return ports.InquiryRequest{
		WalletID: "WP-ABC234",
		Name:     "Amadou Diallo",
		Phone:    "+224620000001",
		Portal:   "evisa",
		Country:  "Portugal",
		Plan:     "standard",
	}
}

func TestInquiryService_Submit_Success(t *testing.T) {
	f := newInquiryFixture(t)
	tx := &mockTx{}

	w := newTestWallet("WP-ABC234") // authorized, balance 1500.00
	f.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	f.walletRepo.EXPECT().GetByWalletIDForUpdate(gomock.Any(), tx, "WP-ABC234").Return(w, nil)
	f.inquiryRepo.EXPECT().
		Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, inq *domain.Inquiry) error {
			assert.Equal(t, "WP-ABC234", inq.WalletID)
			assert.Equal(t, domain.InquiryStatusPending, inq.Status)
			assert.NotEqual(t, "", inq.ID.String())
			return nil
		})

	got, err := f.svc.Submit(context.Background(), testInquiryRequest())

	require.NoError(t, err)
	assert.Equal(t, "Portugal", got.Country)
	assert.True(t, tx.committed)
}

func TestInquiryService_Submit_ExactThresholdAllowed(t *testing.T) {
	f := newInquiryFixture(t)
	tx := &mockTx{}

	w := newTestWallet("WP-ABC234")
	w.Balance = testMinBalance
	f.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	f.walletRepo.EXPECT().GetByWalletIDForUpdate(gomock.Any(), tx, "WP-ABC234").Return(w, nil)
	f.inquiryRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)

	_, err := f.svc.Submit(context.Background(), testInquiryRequest())

	require.NoError(t, err)
}

func TestInquiryService_Submit_InsufficientBalance(t *testing.T) {
	f := newInquiryFixture(t)
	tx := &mockTx{}

	w := newTestWallet("WP-ABC234")
	w.Balance = decimal.RequireFromString("999.99")
	f.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	f.walletRepo.EXPECT().GetByWalletIDForUpdate(gomock.Any(), tx, "WP-ABC234").Return(w, nil)

	_, err := f.svc.Submit(context.Background(), testInquiryRequest())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_003", appErr.Code)
	assert.True(t, tx.rolledBack)
}

func TestInquiryService_Submit_Unauthorized(t *testing.T) {
	f := newInquiryFixture(t)
	tx := &mockTx{}

	w := newTestWallet("WP-ABC234")
	w.Authorized = false
	f.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	f.walletRepo.EXPECT().GetByWalletIDForUpdate(gomock.Any(), tx, "WP-ABC234").Return(w, nil)

	_, err := f.svc.Submit(context.Background(), testInquiryRequest())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_006", appErr.Code)
}

func TestInquiryService_Submit_SuspendedOverridesBalance(t *testing.T) {
	f := newInquiryFixture(t)
	tx := &mockTx{}

	w := newTestWallet("WP-ABC234")
	w.Suspended = true
	f.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	f.walletRepo.EXPECT().GetByWalletIDForUpdate(gomock.Any(), tx, "WP-ABC234").Return(w, nil)

	_, err := f.svc.Submit(context.Background(), testInquiryRequest())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_005", appErr.Code)
}

func TestInquiryService_Submit_UnknownWallet(t *testing.T) {
	f := newInquiryFixture(t)
	tx := &mockTx{}

	f.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	f.walletRepo.EXPECT().GetByWalletIDForUpdate(gomock.Any(), tx, "WP-GONE99").Return(nil, nil)

	req := testInquiryRequest()
	req.WalletID = "WP-GONE99"
	_, err := f.svc.Submit(context.Background(), req)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_001", appErr.Code)
}

func TestInquiryService_RecentPublic_Redacts(t *testing.T) {
	f := newInquiryFixture(t)

	f.inquiryRepo.EXPECT().ListRecent(gomock.Any(), 10).Return([]domain.Inquiry{
		{WalletID: "WP-ABC234", Name: "Amadou Diallo", Phone: "+224620000001", Country: "Portugal", Plan: "standard", Status: domain.InquiryStatusPending, CreatedAt: time.Now()},
	}, nil)

	got, err := f.svc.RecentPublic(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Portugal", got[0].Country)
	assert.Equal(t, "Pending", got[0].Status)
}
