package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/freightops/backend/internal/domain/booking"
	"github.com/google/uuid"
)

// Drivers available for allocation in the demo dataset
var seedDrivers = []booking.Driver{
	{ID: uuid.MustParse("6f1c2a34-0000-4000-8000-000000000001"), Name: "Marcus Webb"},
	{ID: uuid.MustParse("6f1c2a34-0000-4000-8000-000000000002"), Name: "Priya Nair"},
	{ID: uuid.MustParse("6f1c2a34-0000-4000-8000-000000000003"), Name: "Tom Oduya"},
	{ID: uuid.MustParse("6f1c2a34-0000-4000-8000-000000000004"), Name: "Elena Rossi"},
}

// SeedDrivers returns the demo driver roster
func SeedDrivers() []booking.Driver {
	return append([]booking.Driver(nil), seedDrivers...)
}

type seedSpec struct {
	code     string
	customer string
	pickup   string
	dropoff  string
	daysOut  int
	advance  int // number of lifecycle steps to apply
	driver   int // index into seedDrivers, used from the Allocated step on
}

// Seed populates the repository with demo bookings across the lifecycle
// so the dashboard has something to show on first start
func Seed(ctx context.Context, repo *MemoryBookingRepository) error {
	year := time.Now().Year()
	specs := []seedSpec{
		{customer: "Northbridge Foods", pickup: "Leeds", dropoff: "Glasgow", daysOut: 1, advance: 0},
		{customer: "Atlas Components", pickup: "Bristol", dropoff: "Manchester", daysOut: 2, advance: 1},
		{customer: "Harbor & Lane", pickup: "Felixstowe", dropoff: "Birmingham", daysOut: 0, advance: 2, driver: 0},
		{customer: "Cobalt Retail", pickup: "Southampton", dropoff: "Leicester", daysOut: 0, advance: 3, driver: 1},
		{customer: "Veldt Logistics", pickup: "Dover", dropoff: "Sheffield", daysOut: -1, advance: 4, driver: 2},
		{customer: "Morrow Industrial", pickup: "Liverpool", dropoff: "Newcastle", daysOut: -2, advance: 4, driver: 3},
	}

	for i, spec := range specs {
		code := fmt.Sprintf("ORD-%d-%03d", year, i+1)
		b, err := booking.New(code, spec.customer, spec.pickup, spec.dropoff,
			time.Now().AddDate(0, 0, spec.daysOut))
		if err != nil {
			return err
		}

		if err := advance(b, spec); err != nil {
			return err
		}

		// Seed data does not publish events
		b.ClearDomainEvents()
		if err := repo.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func advance(b *booking.Booking, spec seedSpec) error {
	steps := []func() error{
		b.Confirm,
		func() error { return b.Allocate(seedDrivers[spec.driver]) },
		b.Dispatch,
		func() error {
			return b.Deliver(booking.PodAttachment{
				Key:           "seed/" + b.BookingCode,
				FileName:      "POD-" + b.BookingCode + ".pdf",
				ExtractedCode: b.BookingCode,
				MatchPercent:  95,
				Matched:       true,
			})
		},
	}
	if spec.advance > len(steps) {
		spec.advance = len(steps)
	}
	for _, step := range steps[:spec.advance] {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
