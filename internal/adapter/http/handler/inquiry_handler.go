package handler

import (
	"worldpath-wallet/internal/adapter/http/dto"
	"worldpath-wallet/internal/core/ports"
	"worldpath-wallet/pkg/apperror"
	"worldpath-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// InquiryHandler handles inquiry submission and the public feed.
type InquiryHandler struct {
	inquirySvc ports.InquiryService
}

// NewInquiryHandler creates a new InquiryHandler.
func NewInquiryHandler(inquirySvc ports.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquirySvc: inquirySvc}
}

// Submit handles POST /api/v1/inquiries.
func (h *InquiryHandler) Submit(c *gin.Context) {
	var req dto.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	inq, err := h.inquirySvc.Submit(c.Request.Context(), ports.InquiryRequest{
		WalletID: req.WalletID,
		Name:     req.Name,
		Phone:    req.Phone,
		Portal:   req.Portal,
		Country:  req.Country,
		Plan:     req.Plan,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToInquiryResponse(inq))
}

// RecentPublic handles GET /api/v1/public/recent-inquiries.
func (h *InquiryHandler) RecentPublic(c *gin.Context) {
	items, err := h.inquirySvc.RecentPublic(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.PublicInquiryResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.ToPublicInquiryResponse(&items[i]))
	}
	response.OK(c, out)
}
