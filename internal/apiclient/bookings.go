package apiclient

import (
	"context"
	"net/http"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

func (c *Client) CreateBooking(ctx context.Context, in domain.BookingInput) Response[domain.BookingReceipt] {
	return request[domain.BookingReceipt](ctx, c, call{
		method:   http.MethodPost,
		path:     "/bookings",
		route:    "/bookings",
		body:     in,
		validate: true,
	})
}

// GetUserBookings lists the bookings of the authenticated user.
func (c *Client) GetUserBookings(ctx context.Context) Response[[]domain.Booking] {
	return request[[]domain.Booking](ctx, c, call{
		method: http.MethodGet,
		path:   "/bookings",
		route:  "/bookings",
	})
}

func (c *Client) GetBookingByID(ctx context.Context, id string) Response[domain.Booking] {
	return request[domain.Booking](ctx, c, call{
		method: http.MethodGet,
		path:   "/bookings" + segment(id),
		route:  "/bookings/:id",
	})
}

func (c *Client) CancelBooking(ctx context.Context, id string) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method: http.MethodPut,
		path:   "/bookings" + segment(id) + "/cancel",
		route:  "/bookings/:id/cancel",
	})
}
