package booking

import (
	"context"

	"github.com/freightops/backend/internal/domain/booking"
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service orchestrates booking lifecycle operations: it loads the
// aggregate, applies a guarded transition, saves and publishes the
// recorded domain events. Publishing after a successful save is the
// only externally observable side effect of a mutation.
type Service struct {
	repo   booking.Repository
	bus    shared.EventPublisher
	logger *zap.Logger
}

// NewService creates a booking service
func NewService(repo booking.Repository, bus shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// Create creates a new booking in DRAFT status
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error) {
	b, err := booking.New(req.BookingCode, req.CustomerName, req.Pickup, req.Dropoff, req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByCode(ctx, req.BookingCode); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.saveAndPublish(ctx, b); err != nil {
		return nil, err
	}

	resp := ToBookingResponse(b)
	return &resp, nil
}

// Get retrieves a booking by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

// List retrieves all bookings, optionally filtered by status
func (s *Service) List(ctx context.Context, status *booking.Status) ([]BookingResponse, error) {
	var (
		bookings []*booking.Booking
		err      error
	)
	if status != nil {
		bookings, err = s.repo.FindByStatus(ctx, *status)
	} else {
		bookings, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return ToBookingResponses(bookings), nil
}

// Transition applies a lifecycle transition to a booking. On rejection
// the booking is left unchanged and the typed domain error is returned.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, req TransitionRequest) (*BookingResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(b, req); err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking transitioned",
		zap.String("booking_code", b.BookingCode),
		zap.String("status", b.Status.String()),
	)

	resp := ToBookingResponse(b)
	return &resp, nil
}

// apply dispatches the target status to the matching guarded transition
func (s *Service) apply(b *booking.Booking, req TransitionRequest) error {
	// A booking in review only goes back to the status it came from
	// (or to the archive)
	if b.InReview() && req.Target == b.StatusBeforeReview() {
		return b.ResolveReview()
	}

	switch req.Target {
	case booking.StatusConfirmed:
		return b.Confirm()
	case booking.StatusAllocated:
		if req.Driver == nil {
			return shared.NewDomainError("DRIVER_REQUIRED", "A driver assignment is required to allocate a booking")
		}
		return b.Allocate(*req.Driver)
	case booking.StatusDispatched:
		return b.Dispatch()
	case booking.StatusDelivered:
		if req.Pod == nil {
			return shared.NewDomainError("POD_REQUIRED", "A proof-of-delivery document is required to deliver a booking")
		}
		return b.Deliver(*req.Pod)
	case booking.StatusInvoiced:
		return b.Invoice()
	case booking.StatusNeedsReview:
		return b.FlagForReview(req.Reason)
	case booking.StatusArchived:
		return b.Archive()
	}

	return shared.ErrInvalidTransition
}

// ResolveReview returns a booking from NEEDS_REVIEW to its prior status
func (s *Service) ResolveReview(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.ResolveReview(); err != nil {
		return nil, err
	}
	if err := s.saveAndPublish(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

func (s *Service) saveAndPublish(ctx context.Context, b *booking.Booking) error {
	events := b.GetDomainEvents()
	if err := s.repo.Save(ctx, b); err != nil {
		return err
	}
	b.ClearDomainEvents()

	if len(events) > 0 {
		if err := s.bus.Publish(ctx, events...); err != nil {
			// Bus failures are logged, not surfaced: the state change already happened
			s.logger.Error("failed to publish booking events", zap.Error(err))
		}
	}
	return nil
}
