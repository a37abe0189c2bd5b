package booking

import (
	"fmt"
	"time"

	"github.com/freightops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the lifecycle status of a booking
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusConfirmed   Status = "CONFIRMED"
	StatusAllocated   Status = "ALLOCATED"
	StatusDispatched  Status = "DISPATCHED"
	StatusDelivered   Status = "DELIVERED"
	StatusInvoiced    Status = "INVOICED"
	StatusArchived    Status = "ARCHIVED"
	StatusNeedsReview Status = "NEEDS_REVIEW"
)

// IsValid checks if the status is a valid booking Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusAllocated, StatusDispatched,
		StatusDelivered, StatusInvoiced, StatusArchived, StatusNeedsReview:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if no transition leaves this status
func (s Status) IsTerminal() bool {
	return s == StatusArchived
}

// CanTransitionTo checks if the status can transition to the target status.
// NeedsReview is handled separately: it is reachable from any active state
// and returns to the state the booking held before entering review.
func (s Status) CanTransitionTo(target Status) bool {
	if s == StatusArchived {
		return false
	}
	if target == StatusArchived {
		return true
	}
	switch s {
	case StatusDraft:
		return target == StatusConfirmed
	case StatusConfirmed:
		return target == StatusAllocated
	case StatusAllocated:
		return target == StatusDispatched
	case StatusDispatched:
		return target == StatusDelivered
	case StatusDelivered:
		return target == StatusInvoiced
	}
	return false
}

// Driver identifies the driver assigned to a booking
type Driver struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PodAttachment references the proof-of-delivery document attached to a
// booking, with the match fields derived at upload time
type PodAttachment struct {
	Key           string `json:"key"`
	FileName      string `json:"file_name"`
	ExtractedCode string `json:"extracted_code,omitempty"`
	MatchPercent  int    `json:"match_percent"`
	Matched       bool   `json:"matched"`
}

// Booking represents a freight booking aggregate root.
// Status is the sole mutable lifecycle field and changes only through
// the guarded transition methods below.
type Booking struct {
	shared.BaseAggregateRoot
	BookingCode   string
	CustomerName  string
	Pickup        string
	Dropoff       string
	ScheduledDate time.Time
	Status        Status
	Driver        *Driver
	Pod           *PodAttachment
	ReviewReason  string

	// statusBeforeReview remembers where to return after NeedsReview is resolved
	statusBeforeReview Status
}

// New creates a new booking in DRAFT status
func New(bookingCode, customerName, pickup, dropoff string, scheduledDate time.Time) (*Booking, error) {
	if bookingCode == "" {
		return nil, shared.NewDomainError("INVALID_BOOKING_CODE", "Booking code cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if pickup == "" || dropoff == "" {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Pickup and dropoff locations are required")
	}

	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BookingCode:       bookingCode,
		CustomerName:      customerName,
		Pickup:            pickup,
		Dropoff:           dropoff,
		ScheduledDate:     scheduledDate,
		Status:            StatusDraft,
	}

	b.AddDomainEvent(NewBookingCreatedEvent(b))

	return b, nil
}

// Confirm transitions the booking from DRAFT to CONFIRMED
func (b *Booking) Confirm() error {
	if !b.Status.CanTransitionTo(StatusConfirmed) {
		return b.invalidTransition(StatusConfirmed)
	}

	b.Status = StatusConfirmed
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingConfirmedEvent(b))

	return nil
}

// Allocate assigns a driver and transitions the booking from CONFIRMED
// to ALLOCATED. A driver assignment is required.
func (b *Booking) Allocate(driver Driver) error {
	if !b.Status.CanTransitionTo(StatusAllocated) {
		return b.invalidTransition(StatusAllocated)
	}
	if driver.ID == uuid.Nil || driver.Name == "" {
		return shared.NewDomainError("DRIVER_REQUIRED", "A driver assignment is required to allocate a booking")
	}

	b.Driver = &driver
	b.Status = StatusAllocated
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingAllocatedEvent(b))

	return nil
}

// Dispatch transitions the booking from ALLOCATED to DISPATCHED
func (b *Booking) Dispatch() error {
	if !b.Status.CanTransitionTo(StatusDispatched) {
		return b.invalidTransition(StatusDispatched)
	}

	b.Status = StatusDispatched
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingDispatchedEvent(b))

	return nil
}

// Deliver attaches a proof-of-delivery document and transitions the
// booking from DISPATCHED to DELIVERED. A POD reference is required.
func (b *Booking) Deliver(pod PodAttachment) error {
	if !b.Status.CanTransitionTo(StatusDelivered) {
		return b.invalidTransition(StatusDelivered)
	}
	if pod.Key == "" {
		return shared.NewDomainError("POD_REQUIRED", "A proof-of-delivery document is required to deliver a booking")
	}

	b.Pod = &pod
	b.Status = StatusDelivered
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingDeliveredEvent(b))

	return nil
}

// Invoice transitions the booking from DELIVERED to INVOICED. The
// attached POD must carry a Matched verdict; a Needs Review verdict
// routes the booking to NEEDS_REVIEW instead of failing outright.
func (b *Booking) Invoice() error {
	if !b.Status.CanTransitionTo(StatusInvoiced) {
		return b.invalidTransition(StatusInvoiced)
	}
	if b.Pod == nil {
		return shared.NewDomainError("POD_REQUIRED", "A proof-of-delivery document must be attached before invoicing")
	}
	if !b.Pod.Matched {
		b.enterReview("POD verdict is Needs Review")
		return nil
	}

	b.Status = StatusInvoiced
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingInvoicedEvent(b))

	return nil
}

// FlagForReview routes the booking to NEEDS_REVIEW from any active state
func (b *Booking) FlagForReview(reason string) error {
	if b.Status == StatusArchived || b.Status == StatusNeedsReview {
		return b.invalidTransition(StatusNeedsReview)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Review reason is required")
	}

	b.enterReview(reason)
	return nil
}

// ResolveReview returns the booking to the state it held before entering
// review. Valid only in NEEDS_REVIEW status.
func (b *Booking) ResolveReview() error {
	if b.Status != StatusNeedsReview {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot resolve review for booking in %s status", b.Status))
	}

	previous := b.statusBeforeReview
	b.Status = previous
	b.statusBeforeReview = ""
	b.ReviewReason = ""
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingReviewResolvedEvent(b, previous))

	return nil
}

// Archive moves the booking to the terminal ARCHIVED status
func (b *Booking) Archive() error {
	if !b.Status.CanTransitionTo(StatusArchived) {
		return b.invalidTransition(StatusArchived)
	}

	b.Status = StatusArchived
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingArchivedEvent(b))

	return nil
}

// InReview returns true if the booking awaits operator review
func (b *Booking) InReview() bool {
	return b.Status == StatusNeedsReview
}

// StatusBeforeReview returns the status the booking held before entering
// review, or empty when not in review
func (b *Booking) StatusBeforeReview() Status {
	if !b.InReview() {
		return ""
	}
	return b.statusBeforeReview
}

func (b *Booking) enterReview(reason string) {
	b.statusBeforeReview = b.Status
	b.Status = StatusNeedsReview
	b.ReviewReason = reason
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingFlaggedForReviewEvent(b, reason))
}

func (b *Booking) invalidTransition(target Status) error {
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition booking from %s to %s", b.Status, target))
}
