package dto

import (
	"time"

	"worldpath-wallet/internal/core/domain"
)

// SyncRequest is the request body for client profile sync.
type SyncRequest struct {
	WalletID string `json:"walletId" binding:"required,wallet_id"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"required,min=5,max=20"`
}

// WalletResponse is the full wallet record, served on the admin surface only.
type WalletResponse struct {
	WalletID     string `json:"walletId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Balance      string `json:"balance"`
	Authorized   bool   `json:"authorized"`
	Suspended    bool   `json:"suspended"`
	RegisteredAt string `json:"registeredAt"`
	LastUpdated  string `json:"lastUpdated"`
}

// StatusResponse is the redacted polling view.
type StatusResponse struct {
	Authorized bool   `json:"authorized"`
	Suspended  bool   `json:"suspended"`
	Balance    string `json:"balance"`
}

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateWalletRequest is the admin manual wallet creation body.
// WalletID empty means the server generates one; Authorized defaults to true.
type CreateWalletRequest struct {
	WalletID   string  `json:"walletId" binding:"omitempty,wallet_id"`
	Name       string  `json:"name" binding:"required,min=1,max=100"`
	Phone      string  `json:"phone" binding:"required,min=5,max=20"`
	Balance    *string `json:"balance,omitempty"`
	Authorized *bool   `json:"authorized,omitempty"`
}

// UpdateWalletRequest is the admin full-record edit body. Absent fields are
// left unchanged.
type UpdateWalletRequest struct {
	Name       *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Phone      *string `json:"phone,omitempty" binding:"omitempty,min=5,max=20"`
	Balance    *string `json:"balance,omitempty"`
	Authorized *bool   `json:"authorized,omitempty"`
	Suspended  *bool   `json:"suspended,omitempty"`
}

// AuthorizeRequest flips a wallet's authorized flag. The flag travels as
// "status" on the wire.
type AuthorizeRequest struct {
	WalletID string `json:"walletId" binding:"required,wallet_id"`
	Status   *bool  `json:"status" binding:"required"`
}

// UpdateBalanceRequest applies a signed delta to a wallet balance.
type UpdateBalanceRequest struct {
	WalletID string `json:"walletId" binding:"required,wallet_id"`
	Amount   string `json:"amount" binding:"required"`
}

// InquiryRequest is the paid booking inquiry submission body.
type InquiryRequest struct {
	WalletID string `json:"walletId" binding:"required,wallet_id"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"required,min=5,max=20"`
	Portal   string `json:"portal" binding:"required,max=50"`
	Country  string `json:"country" binding:"required,max=60"`
	Plan     string `json:"plan" binding:"required,max=50"`
}

// InquiryResponse is the full inquiry record, admin surface only.
type InquiryResponse struct {
	ID        string `json:"id"`
	WalletID  string `json:"walletId"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Portal    string `json:"portal"`
	Country   string `json:"country"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// PublicInquiryResponse is the redacted activity feed entry.
type PublicInquiryResponse struct {
	Country   string `json:"country"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// InquiryStatusRequest flips an inquiry's lifecycle state.
type InquiryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Active"`
}

// LedgerEntryResponse is one balance mutation record.
type LedgerEntryResponse struct {
	ID           string `json:"id"`
	WalletID     string `json:"walletId"`
	Delta        string `json:"delta"`
	BalanceAfter string `json:"balanceAfter"`
	Source       string `json:"source"`
	Actor        string `json:"actor"`
	CreatedAt    string `json:"createdAt"`
}

// ToWalletResponse maps a domain wallet to its wire form.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:     w.WalletID,
		Name:         w.Name,
		Phone:        w.Phone,
		Balance:      w.Balance.StringFixed(2),
		Authorized:   w.Authorized,
		Suspended:    w.Suspended,
		RegisteredAt: w.RegisteredAt.UTC().Format(time.RFC3339),
		LastUpdated:  w.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// ToStatusResponse maps the redacted status view to its wire form.
func ToStatusResponse(s *domain.WalletStatus) StatusResponse {
	return StatusResponse{
		Authorized: s.Authorized,
		Suspended:  s.Suspended,
		Balance:    s.Balance.StringFixed(2),
	}
}

// ToInquiryResponse maps a domain inquiry to its wire form.
func ToInquiryResponse(i *domain.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:        i.ID.String(),
		WalletID:  i.WalletID,
		Name:      i.Name,
		Phone:     i.Phone,
		Portal:    i.Portal,
		Country:   i.Country,
		Plan:      i.Plan,
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToPublicInquiryResponse maps a redacted inquiry to its wire form.
func ToPublicInquiryResponse(p *domain.PublicInquiry) PublicInquiryResponse {
	return PublicInquiryResponse{
		Country:   p.Country,
		Plan:      p.Plan,
		Status:    p.Status,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToLedgerEntryResponse maps a ledger entry to its wire form.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           e.ID.String(),
		WalletID:     e.WalletID,
		Delta:        e.Delta.StringFixed(2),
		BalanceAfter: e.BalanceAfter.StringFixed(2),
		Source:       string(e.Source),
		Actor:        e.Actor,
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
