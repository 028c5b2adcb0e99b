package catalog

import (
	"context"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

type Bookings struct{ *base }

// All lists every booking (admin).
func (b *Bookings) All(ctx context.Context) (Listing[domain.Booking], error) {
	return list(b.base, ResourceBookings, b.api.GetAllBookings(ctx), slice[domain.Booking],
		func(s sampleSet) []domain.Booking { return s.Bookings })
}

// Mine lists the caller's bookings. It has no offline fallback: sample rows
// would be mistaken for the caller's own trips.
func (b *Bookings) Mine(ctx context.Context) (Listing[domain.Booking], error) {
	return list(b.base, ResourceBookings, b.api.GetUserBookings(ctx), slice[domain.Booking], nil)
}

func (b *Bookings) ByID(ctx context.Context, id string) (domain.Booking, error) {
	return unwrap(b.api.GetBookingByID(ctx, id))
}

// Quote prices travelers on packageID with the live package.
func (b *Bookings) Quote(ctx context.Context, packageID string, travelers int) (int64, error) {
	pkg, err := unwrap(b.api.GetPackageByID(ctx, packageID))
	if err != nil {
		return 0, err
	}
	return pkg.Quote(travelers)
}

func (b *Bookings) Book(ctx context.Context, in domain.BookingInput) (domain.BookingReceipt, error) {
	return unwrap(b.api.CreateBooking(ctx, in))
}

func (b *Bookings) Cancel(ctx context.Context, id string) (domain.Ack, error) {
	return unwrap(b.api.CancelBooking(ctx, id))
}

func (b *Bookings) SetStatus(ctx context.Context, id string, status domain.BookingStatus) (domain.Ack, error) {
	return unwrap(b.api.UpdateBookingStatus(ctx, id, status))
}
