package booking

import (
	"time"

	"github.com/freightops/backend/internal/domain/booking"
)

// CreateBookingRequest carries the data for a new booking
type CreateBookingRequest struct {
	BookingCode   string
	CustomerName  string
	Pickup        string
	Dropoff       string
	ScheduledDate time.Time
}

// TransitionRequest carries the target status plus any guard context the
// transition requires
type TransitionRequest struct {
	Target booking.Status
	// Driver is required for the CONFIRMED -> ALLOCATED transition
	Driver *booking.Driver
	// Pod is required for the DISPATCHED -> DELIVERED transition
	Pod *booking.PodAttachment
	// Reason is required when flagging a booking for review
	Reason string
}

// BookingResponse represents a booking in service responses
type BookingResponse struct {
	ID            string                 `json:"id"`
	BookingCode   string                 `json:"booking_code"`
	CustomerName  string                 `json:"customer_name"`
	Pickup        string                 `json:"pickup"`
	Dropoff       string                 `json:"dropoff"`
	ScheduledDate time.Time              `json:"scheduled_date"`
	Status        string                 `json:"status"`
	Driver        *booking.Driver        `json:"driver,omitempty"`
	Pod           *booking.PodAttachment `json:"pod,omitempty"`
	ReviewReason  string                 `json:"review_reason,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToBookingResponse maps a booking aggregate to its response shape
func ToBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		BookingCode:   b.BookingCode,
		CustomerName:  b.CustomerName,
		Pickup:        b.Pickup,
		Dropoff:       b.Dropoff,
		ScheduledDate: b.ScheduledDate,
		Status:        b.Status.String(),
		Driver:        b.Driver,
		Pod:           b.Pod,
		ReviewReason:  b.ReviewReason,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToBookingResponses maps a list of bookings
func ToBookingResponses(bookings []*booking.Booking) []BookingResponse {
	result := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = ToBookingResponse(b)
	}
	return result
}
