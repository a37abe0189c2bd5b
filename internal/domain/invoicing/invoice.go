package invoicing

import (
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the status tag carried on the invoice wire payload
type InvoiceStatus string

const (
	StatusDraft      InvoiceStatus = "DRAFT"
	StatusSubmitted  InvoiceStatus = "SUBMITTED"
	StatusAuthorised InvoiceStatus = "AUTHORISED"
	StatusPaid       InvoiceStatus = "PAID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusAuthorised, StatusPaid:
		return true
	}
	return false
}

// Contact identifies the invoiced party on the wire
type Contact struct {
	Name string `json:"Name"`
}

// InvoicePayload is the wire shape submitted to the accounting system.
// Immutable once constructed.
type InvoicePayload struct {
	InvoiceNumber string        `json:"InvoiceNumber"`
	Contact       Contact       `json:"Contact"`
	Date          string        `json:"Date"`
	Amount        string        `json:"Amount"`
	Status        InvoiceStatus `json:"Status"`
}

// NewInvoicePayload constructs an invoice payload. The date must be an
// ISO date (YYYY-MM-DD); the amount is rendered as a formatted string.
func NewInvoicePayload(invoiceNumber, contactName, isoDate string, amount decimal.Decimal, status InvoiceStatus) (InvoicePayload, error) {
	if invoiceNumber == "" {
		return InvoicePayload{}, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if contactName == "" {
		return InvoicePayload{}, shared.NewDomainError("INVALID_CONTACT", "Contact name cannot be empty")
	}
	if !status.IsValid() {
		return InvoicePayload{}, shared.NewDomainError("INVALID_STATUS", "Invoice status must be one of DRAFT, SUBMITTED, AUTHORISED, PAID")
	}
	if amount.IsNegative() {
		return InvoicePayload{}, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}

	return InvoicePayload{
		InvoiceNumber: invoiceNumber,
		Contact:       Contact{Name: contactName},
		Date:          isoDate,
		Amount:        FormatAmount(amount),
		Status:        status,
	}, nil
}

// FormatAmount renders an amount for the invoice wire shape
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// BatchResult is the aggregate outcome of submitting a sequence of
// invoices. OK is true iff no item failed; Sent+Failed always equals the
// batch length.
type BatchResult struct {
	OK     bool `json:"ok"`
	Sent   int  `json:"sent"`
	Failed int  `json:"failed"`
}
