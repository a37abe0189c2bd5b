package handler

import (
	documentapp "github.com/freightops/backend/internal/application/document"
	"github.com/freightops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles POD upload, matching and document store endpoints
type DocumentHandler struct {
	BaseHandler
	service *documentapp.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *documentapp.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents")
	{
		docs.POST("/match", h.Match)
		docs.GET("/version", h.Version)
		docs.GET("/:key", h.Get)
		docs.DELETE("/:key", h.Remove)
	}
}

// MatchRequest is the request body for matching an uploaded POD
type MatchRequest struct {
	Key      string `json:"key" binding:"required,min=1,max=200"`
	FileName string `json:"file_name" binding:"required,min=1,max=500"`
	Size     int64  `json:"size" binding:"omitempty,min=0"`
}

// Match runs the matcher over an uploaded file name and stores the handle
func (h *DocumentHandler) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	doc, err := h.service.Upload(c.Request.Context(), req.Key, req.FileName, req.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Get returns the stored handle for a key
func (h *DocumentHandler) Get(c *gin.Context) {
	handle, ok := h.service.Get(c.Param("key"))
	if !ok {
		h.NotFound(c, "Document not found")
		return
	}
	h.Success(c, handle)
}

// Remove deletes the stored handle for a key. Idempotent.
func (h *DocumentHandler) Remove(c *gin.Context) {
	h.service.Remove(c.Param("key"))
	h.NoContent(c)
}

// Version returns the store's change counter, readable by polling
func (h *DocumentHandler) Version(c *gin.Context) {
	h.Success(c, gin.H{"version": h.service.Version()})
}
