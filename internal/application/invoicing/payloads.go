package invoicing

import (
	"github.com/freightops/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// InvoiceDraft is one invoice entry before wire-shape validation
type InvoiceDraft struct {
	InvoiceNumber string
	ContactName   string
	Date          string
	Amount        decimal.Decimal
	Status        invoicing.InvoiceStatus
}

// BuildPayloads assembles the wire payloads for a batch. An empty status
// defaults to SUBMITTED. The first invalid draft aborts the build, so a
// batch never starts with known-bad entries.
func BuildPayloads(drafts []InvoiceDraft) ([]invoicing.InvoicePayload, error) {
	payloads := make([]invoicing.InvoicePayload, 0, len(drafts))
	for _, d := range drafts {
		status := d.Status
		if status == "" {
			status = invoicing.StatusSubmitted
		}
		payload, err := invoicing.NewInvoicePayload(d.InvoiceNumber, d.ContactName, d.Date, d.Amount, status)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}
