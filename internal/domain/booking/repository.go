package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for bookings
type Repository interface {
	// Save persists a booking (insert or update)
	Save(ctx context.Context, b *Booking) error
	// FindByID retrieves a booking by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// FindByCode retrieves a booking by its booking code
	FindByCode(ctx context.Context, code string) (*Booking, error)
	// FindAll retrieves all bookings
	FindAll(ctx context.Context) ([]*Booking, error)
	// FindByStatus retrieves all bookings in the given status
	FindByStatus(ctx context.Context, status Status) ([]*Booking, error)
}
