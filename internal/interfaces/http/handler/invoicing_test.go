package handler

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"testing"
	"time"

	invoicingapp "github.com/freightops/backend/internal/application/invoicing"
	"github.com/freightops/backend/internal/infrastructure/accounting"
	"github.com/freightops/backend/internal/infrastructure/event"
	"github.com/freightops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupInvoicingRouter(t *testing.T, failureRate float64, connected bool) *gin.Engine {
	t.Helper()

	cfg := accounting.Config{
		FailureRate:       failureRate,
		MinLatency:        time.Millisecond,
		MaxLatency:        2 * time.Millisecond,
		ConnectLatency:    time.Millisecond,
		DisconnectLatency: time.Millisecond,
	}
	store := accounting.NewInMemoryConnectionStore()
	if connected {
		require.NoError(t, store.SetConnected(context.Background(), true))
	}
	gateway := accounting.NewGatewayWithRand(cfg, store, zap.NewNop(), rand.New(rand.NewSource(1)))

	bus := event.NewInMemoryEventBus(zap.NewNop())
	service := invoicingapp.NewBatchService(gateway, bus, zap.NewNop(), time.Second)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewInvoicingHandler(service).RegisterRoutes(api)
	return engine
}

func batchBody(numbers ...string) gin.H {
	invoices := make([]gin.H, 0, len(numbers))
	for _, n := range numbers {
		invoices = append(invoices, gin.H{
			"invoice_number": n,
			"contact_name":   "Northbridge Foods",
			"date":           "2026-08-29",
			"amount":         1250.50,
			"status":         "SUBMITTED",
		})
	}
	return gin.H{"invoices": invoices}
}

func TestInvoicingHandler_SendBatch(t *testing.T) {
	engine := setupInvoicingRouter(t, 0, true)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/invoices/batch",
		batchBody("INV-001", "INV-002", "INV-003"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool              `json:"success"`
		Data    SendBatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Data.Result.OK)
	assert.Equal(t, 3, resp.Data.Result.Sent)
	assert.Equal(t, 0, resp.Data.Result.Failed)

	require.Len(t, resp.Data.Progress, 3)
	for i, p := range resp.Data.Progress {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, 3, p.Total)
		assert.True(t, p.OK)
	}
}

func TestInvoicingHandler_SendBatchAllFail(t *testing.T) {
	engine := setupInvoicingRouter(t, 1, true)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/invoices/batch",
		batchBody("INV-001", "INV-002"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SendBatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.Data.Result.OK)
	assert.Equal(t, 2, resp.Data.Result.Failed)
	require.Len(t, resp.Data.Progress, 2)
	assert.Contains(t, resp.Data.Progress[0].Message, "failed")
}

func TestInvoicingHandler_SendBatchNotConnected(t *testing.T) {
	engine := setupInvoicingRouter(t, 0, false)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/invoices/batch", batchBody("INV-001"))
	require.Equal(t, http.StatusOK, w.Code)

	// A disconnected accounting system fails every item but never aborts
	var resp struct {
		Data SendBatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Result.OK)
	assert.Equal(t, 1, resp.Data.Result.Failed)
}

func TestInvoicingHandler_SendBatchValidation(t *testing.T) {
	engine := setupInvoicingRouter(t, 0, true)

	tests := []struct {
		name string
		body gin.H
	}{
		{"empty batch", gin.H{"invoices": []gin.H{}}},
		{"missing invoices", gin.H{}},
		{"bad date", gin.H{"invoices": []gin.H{{
			"invoice_number": "INV-001",
			"contact_name":   "Acme",
			"date":           "29/08/2026",
			"amount":         100.0,
		}}}},
		{"zero amount", gin.H{"invoices": []gin.H{{
			"invoice_number": "INV-001",
			"contact_name":   "Acme",
			"date":           "2026-08-29",
			"amount":         0.0,
		}}}},
		{"unknown status", gin.H{"invoices": []gin.H{{
			"invoice_number": "INV-001",
			"contact_name":   "Acme",
			"date":           "2026-08-29",
			"amount":         100.0,
			"status":         "VOID",
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, engine, http.MethodPost, "/api/v1/invoices/batch", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			resp := decodeResponse(t, w)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		})
	}
}
