package handler

import (
	"github.com/freightops/backend/internal/infrastructure/accounting"
	"github.com/gin-gonic/gin"
)

// AccountingHandler handles accounting connection endpoints
type AccountingHandler struct {
	BaseHandler
	gateway *accounting.Gateway
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(gateway *accounting.Gateway) *AccountingHandler {
	return &AccountingHandler{gateway: gateway}
}

// RegisterRoutes registers accounting routes
func (h *AccountingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	acc := rg.Group("/accounting")
	{
		acc.POST("/connect", h.Connect)
		acc.POST("/disconnect", h.Disconnect)
		acc.GET("/status", h.Status)
	}
}

// Connect runs the simulated OAuth handshake and durably marks the
// accounting system connected
func (h *AccountingHandler) Connect(c *gin.Context) {
	if err := h.gateway.Connect(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"connected": true})
}

// Disconnect clears the durable connected flag
func (h *AccountingHandler) Disconnect(c *gin.Context) {
	if err := h.gateway.Disconnect(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"connected": false})
}

// Status reads the durable connected flag
func (h *AccountingHandler) Status(c *gin.Context) {
	connected, err := h.gateway.Connected(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"connected": connected})
}
