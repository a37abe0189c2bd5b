package handler

import (
	invoicingapp "github.com/freightops/backend/internal/application/invoicing"
	"github.com/freightops/backend/internal/domain/invoicing"
	"github.com/freightops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InvoicingHandler handles invoice batch submission endpoints
type InvoicingHandler struct {
	BaseHandler
	service *invoicingapp.BatchService
}

// NewInvoicingHandler creates a new InvoicingHandler
func NewInvoicingHandler(service *invoicingapp.BatchService) *InvoicingHandler {
	return &InvoicingHandler{service: service}
}

// RegisterRoutes registers invoicing routes
func (h *InvoicingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/invoices/batch", h.SendBatch)
}

// BatchInvoiceInput is one invoice entry in a batch request
type BatchInvoiceInput struct {
	InvoiceNumber string  `json:"invoice_number" binding:"required,min=1,max=50"`
	ContactName   string  `json:"contact_name" binding:"required,min=1,max=200"`
	Date          string  `json:"date" binding:"required,datetime=2006-01-02"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Status        string  `json:"status" binding:"omitempty,oneof=DRAFT SUBMITTED AUTHORISED PAID"`
}

// SendBatchRequest is the request body for a batch run
type SendBatchRequest struct {
	Invoices []BatchInvoiceInput `json:"invoices" binding:"required,min=1,dive"`
}

// SendBatchResponse carries the aggregate result plus the per-item
// progress reports in processing order
type SendBatchResponse struct {
	Result   invoicing.BatchResult   `json:"result"`
	Progress []invoicingapp.Progress `json:"progress"`
}

// SendBatch submits a batch of invoices to the accounting system
func (h *InvoicingHandler) SendBatch(c *gin.Context) {
	var req SendBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	drafts := make([]invoicingapp.InvoiceDraft, 0, len(req.Invoices))
	for _, in := range req.Invoices {
		drafts = append(drafts, invoicingapp.InvoiceDraft{
			InvoiceNumber: in.InvoiceNumber,
			ContactName:   in.ContactName,
			Date:          in.Date,
			Amount:        decimal.NewFromFloat(in.Amount),
			Status:        invoicing.InvoiceStatus(in.Status),
		})
	}
	payloads, err := invoicingapp.BuildPayloads(drafts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	progress := make([]invoicingapp.Progress, 0, len(payloads))
	result, err := h.service.SendBatch(c.Request.Context(), payloads, func(p invoicingapp.Progress) {
		progress = append(progress, p)
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SendBatchResponse{Result: result, Progress: progress})
}
