package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/freightops/backend/internal/domain/invoicing"
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progress reports the outcome of one invoice within a batch. Index runs
// from 1 to Total in input order.
type Progress struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ProgressFunc receives per-item progress during a batch run
type ProgressFunc func(Progress)

// Submitter is the remote accounting call the batch depends on
type Submitter interface {
	// SubmitInvoice submits one invoice and returns the remote identifier
	SubmitInvoice(ctx context.Context, payload invoicing.InvoicePayload) (string, error)
}

// BatchService submits invoice batches to the accounting system. Items
// are processed strictly sequentially, in input order; a failed item is
// recorded and the batch continues (continue-on-error, never fail-fast).
type BatchService struct {
	submitter   Submitter
	bus         shared.EventPublisher
	logger      *zap.Logger
	itemTimeout time.Duration
}

// NewBatchService creates a batch service. itemTimeout bounds every
// individual submission; zero disables the per-item timeout.
func NewBatchService(submitter Submitter, bus shared.EventPublisher, logger *zap.Logger, itemTimeout time.Duration) *BatchService {
	return &BatchService{
		submitter:   submitter,
		bus:         bus,
		logger:      logger,
		itemTimeout: itemTimeout,
	}
}

// SendBatch submits the invoices one at a time, invoking onProgress
// exactly once per item. Sent+Failed always equals the number of items
// processed; OK is true iff nothing failed. Cancelling the context stops
// the batch between items and returns the partial result with ctx.Err().
func (s *BatchService) SendBatch(ctx context.Context, invoices []invoicing.InvoicePayload, onProgress ProgressFunc) (invoicing.BatchResult, error) {
	result := invoicing.BatchResult{}
	total := len(invoices)

	for i, inv := range invoices {
		if err := ctx.Err(); err != nil {
			result.OK = result.Failed == 0
			return result, err
		}

		remoteID, err := s.submit(ctx, inv)
		if err != nil && ctx.Err() != nil {
			// Parent cancellation, not an item outcome
			result.OK = result.Failed == 0
			return result, ctx.Err()
		}

		progress := Progress{Index: i + 1, Total: total}
		if err != nil {
			result.Failed++
			progress.OK = false
			progress.Message = fmt.Sprintf("Invoice %s failed: %v", inv.InvoiceNumber, err)
			s.logger.Warn("invoice submission failed",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.Error(err),
			)
		} else {
			result.Sent++
			progress.OK = true
			progress.Message = fmt.Sprintf("Invoice %s submitted (remote id %s)", inv.InvoiceNumber, remoteID)
		}

		if onProgress != nil {
			onProgress(progress)
		}
	}

	result.OK = result.Failed == 0

	s.publishCompleted(ctx, result, total)

	return result, nil
}

// submit runs one submission under the per-item timeout
func (s *BatchService) submit(ctx context.Context, inv invoicing.InvoicePayload) (string, error) {
	if s.itemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.itemTimeout)
		defer cancel()
	}
	return s.submitter.SubmitInvoice(ctx, inv)
}

func (s *BatchService) publishCompleted(ctx context.Context, result invoicing.BatchResult, total int) {
	if s.bus == nil {
		return
	}
	event := &batchCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCompleted, uuid.Nil, map[string]any{
			"ok":     result.OK,
			"sent":   result.Sent,
			"failed": result.Failed,
			"total":  total,
		}),
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish batch event", zap.Error(err))
	}
}

// EventTypeBatchCompleted is published after every completed batch run
const EventTypeBatchCompleted = "invoice.batch_completed"

type batchCompletedEvent struct {
	shared.BaseDomainEvent
}
