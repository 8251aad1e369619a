package handler

import (
	"net/http"

	"worldpath-wallet/internal/adapter/http/dto"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/pkg/apperror"
	"worldpath-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the client-facing wallet endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Sync handles POST /api/v1/wallet/sync.
func (h *WalletHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	w, err := h.walletSvc.Sync(c.Request.Context(), ports.SyncRequest{
		WalletID: req.WalletID,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// The sync reply is the redacted view: clients never read back their
	// own contact fields, only the gating state.
	status := w.Status()
	response.OK(c, dto.ToStatusResponse(&status))
}

// Status handles GET /api/v1/wallet/status/:walletId.
func (h *WalletHandler) Status(c *gin.Context) {
	walletID := c.Param("walletId")

	status, err := h.walletSvc.Status(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToStatusResponse(status))
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
