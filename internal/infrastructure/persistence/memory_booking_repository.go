package persistence

import (
	"context"
	"sync"

	"github.com/freightops/backend/internal/domain/booking"
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemoryBookingRepository implements booking.Repository in process
// memory. Persistence across restarts is out of scope for this service;
// the repository exists to give the dashboard a stable data source and
// the lifecycle a save point.
type MemoryBookingRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*booking.Booking
	order []uuid.UUID
}

// NewMemoryBookingRepository creates an empty repository
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		items: make(map[uuid.UUID]*booking.Booking),
	}
}

// Save persists a booking (insert or update). The stored value is a
// copy, so later mutations of the argument are invisible until the next
// Save.
func (r *MemoryBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return shared.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[b.ID]; !exists {
		r.order = append(r.order, b.ID)
	}
	cp := *b
	cp.ClearDomainEvents()
	r.items[b.ID] = &cp
	return nil
}

// FindByID retrieves a booking by its ID
func (r *MemoryBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// FindByCode retrieves a booking by its booking code
func (r *MemoryBookingRepository) FindByCode(ctx context.Context, code string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if b := r.items[id]; b.BookingCode == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll retrieves all bookings in insertion order
func (r *MemoryBookingRepository) FindAll(ctx context.Context) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*booking.Booking, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.items[id]
		result = append(result, &cp)
	}
	return result, nil
}

// FindByStatus retrieves all bookings in the given status, in insertion order
func (r *MemoryBookingRepository) FindByStatus(ctx context.Context, status booking.Status) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*booking.Booking, 0)
	for _, id := range r.order {
		if b := r.items[id]; b.Status == status {
			cp := *b
			result = append(result, &cp)
		}
	}
	return result, nil
}

// Ensure MemoryBookingRepository implements booking.Repository
var _ booking.Repository = (*MemoryBookingRepository)(nil)
