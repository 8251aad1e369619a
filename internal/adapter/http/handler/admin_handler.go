package handler

import (
	"worldpath-wallet/internal/adapter/http/dto"
	"worldpath-wallet/internal/adapter/http/middleware"
	"worldpath-wallet/internal/core/domain"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/pkg/apperror"
	"worldpath-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminHandler handles the operator console endpoints.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	wallets, err := h.adminSvc.ListWallets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		out = append(out, dto.ToWalletResponse(&wallets[i]))
	}
	response.OK(c, out)
}

// CreateUser handles POST /api/v1/admin/users.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	balance := decimal.Zero
	if req.Balance != nil {
		var err error
		balance, err = decimal.NewFromString(*req.Balance)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
	}

	// Manually created wallets are authorized unless stated otherwise.
	authorized := true
	if req.Authorized != nil {
		authorized = *req.Authorized
	}

	w, err := h.adminSvc.CreateWallet(c.Request.Context(), ports.CreateWalletRequest{
		WalletID:   req.WalletID,
		Name:       req.Name,
		Phone:      req.Phone,
		Balance:    balance,
		Authorized: authorized,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToWalletResponse(w))
}

// UpdateUser handles PUT /api/v1/admin/users/:walletId.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	walletID := c.Param("walletId")

	var req dto.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	fields := ports.OverwriteFields{
		Name:       req.Name,
		Phone:      req.Phone,
		Authorized: req.Authorized,
		Suspended:  req.Suspended,
	}
	if req.Balance != nil {
		balance, err := decimal.NewFromString(*req.Balance)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
		fields.Balance = &balance
	}

	w, err := h.adminSvc.OverwriteWallet(c.Request.Context(), walletID, fields, middleware.AdminUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToWalletResponse(w))
}

// DeleteUser handles DELETE /api/v1/admin/users/:walletId.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.adminSvc.DeleteWallet(c.Request.Context(), c.Param("walletId")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"success": true})
}

// Authorize handles POST /api/v1/admin/authorize.
func (h *AdminHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	w, err := h.adminSvc.SetAuthorization(c.Request.Context(), req.WalletID, *req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToWalletResponse(w))
}

// UpdateBalance handles POST /api/v1/admin/update-balance.
func (h *AdminHandler) UpdateBalance(c *gin.Context) {
	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	w, err := h.adminSvc.InjectBalance(c.Request.Context(), req.WalletID, amount, middleware.AdminUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToWalletResponse(w))
}

// UserLedger handles GET /api/v1/admin/users/:walletId/ledger.
func (h *AdminHandler) UserLedger(c *gin.Context) {
	entries, err := h.adminSvc.WalletLedger(c.Request.Context(), c.Param("walletId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.ToLedgerEntryResponse(&entries[i]))
	}
	response.OK(c, out)
}

// ListInquiries handles GET /api/v1/admin/inquiries.
func (h *AdminHandler) ListInquiries(c *gin.Context) {
	inquiries, err := h.adminSvc.ListInquiries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.InquiryResponse, 0, len(inquiries))
	for i := range inquiries {
		out = append(out, dto.ToInquiryResponse(&inquiries[i]))
	}
	response.OK(c, out)
}

// SetInquiryStatus handles PUT /api/v1/admin/inquiries/:id/status.
func (h *AdminHandler) SetInquiryStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid inquiry id"))
		return
	}

	var req dto.InquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.adminSvc.SetInquiryStatus(c.Request.Context(), id, domain.InquiryStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"updated": true})
}
