package booking

import (
	"github.com/freightops/backend/internal/domain/shared"
)

// Event type constants, dot-namespaced
const (
	EventTypeBookingCreated          = "booking.created"
	EventTypeBookingConfirmed        = "booking.confirmed"
	EventTypeBookingAllocated        = "booking.allocated"
	EventTypeBookingDispatched       = "booking.dispatched"
	EventTypeBookingDelivered        = "booking.delivered"
	EventTypeBookingInvoiced         = "booking.invoiced"
	EventTypeBookingFlaggedForReview = "booking.flagged_for_review"
	EventTypeBookingReviewResolved   = "booking.review_resolved"
	EventTypeBookingArchived         = "booking.archived"
)

// BookingEvent is the common shape of all booking lifecycle events
type BookingEvent struct {
	shared.BaseDomainEvent
}

func newBookingEvent(eventType string, b *Booking, extra map[string]any) *BookingEvent {
	payload := map[string]any{
		"booking_id":   b.ID.String(),
		"booking_code": b.BookingCode,
		"status":       b.Status.String(),
	}
	for k, v := range extra {
		payload[k] = v
	}
	return &BookingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, b.ID, payload),
	}
}

// NewBookingCreatedEvent is raised when a new booking is created
func NewBookingCreatedEvent(b *Booking) *BookingEvent {
	return newBookingEvent(EventTypeBookingCreated, b, map[string]any{
		"customer_name": b.CustomerName,
		"pickup":        b.Pickup,
		"dropoff":       b.Dropoff,
	})
}

// NewBookingConfirmedEvent is raised when a booking is confirmed
func NewBookingConfirmedEvent(b *Booking) *BookingEvent {
	return newBookingEvent(EventTypeBookingConfirmed, b, nil)
}

// NewBookingAllocatedEvent is raised when a driver is assigned
func NewBookingAllocatedEvent(b *Booking) *BookingEvent {
	return newBookingEvent(EventTypeBookingAllocated, b, map[string]any{
		"driver_id":   b.Driver.ID.String(),
		"driver_name": b.Driver.Name,
	})
}

// NewBookingDispatchedEvent is raised when a booking is dispatched
func NewBookingDispatchedEvent(b *Booking) *BookingEvent {
	return newBookingEvent(EventTypeBookingDispatched, b, nil)
}

// NewBookingDeliveredEvent is raised when a POD is attached and the
// booking is marked delivered
func NewBookingDeliveredEvent(b *Booking) *BookingEvent {
	return newBookingEvent(EventTypeBookingDelivered, b, map[string]any{
		"pod_key":       b.Pod.Key,
		"pod_file_name": b.Pod.FileName,
	})
}

// NewBookingInvoicedEvent is raised when a booking is invoiced
func NewBookingInvoicedEvent(b *Booking) *BookingEvent {
	return newBookingEvent(EventTypeBookingInvoiced, b, nil)
}

// NewBookingFlaggedForReviewEvent is raised when a booking is routed to
// operator review
func NewBookingFlaggedForReviewEvent(b *Booking, reason string) *BookingEvent {
	return newBookingEvent(EventTypeBookingFlaggedForReview, b, map[string]any{
		"reason":          reason,
		"previous_status": b.statusBeforeReview.String(),
	})
}

// NewBookingReviewResolvedEvent is raised when review is resolved and the
// booking returns to its previous status
func NewBookingReviewResolvedEvent(b *Booking, restored Status) *BookingEvent {
	return newBookingEvent(EventTypeBookingReviewResolved, b, map[string]any{
		"restored_status": restored.String(),
	})
}

// NewBookingArchivedEvent is raised when a booking is archived
func NewBookingArchivedEvent(b *Booking) *BookingEvent {
	return newBookingEvent(EventTypeBookingArchived, b, nil)
}
