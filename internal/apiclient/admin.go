package apiclient

import (
	"context"
	"net/http"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

func (c *Client) GetAllUsers(ctx context.Context) Response[[]domain.User] {
	return request[[]domain.User](ctx, c, call{
		method: http.MethodGet,
		path:   "/admin/users",
		route:  "/admin/users",
	})
}

// GetAllBookings lists every booking with the booking user's name and email.
func (c *Client) GetAllBookings(ctx context.Context) Response[[]domain.Booking] {
	return request[[]domain.Booking](ctx, c, call{
		method: http.MethodGet,
		path:   "/admin/bookings",
		route:  "/admin/bookings",
	})
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) Response[domain.Ack] {
	return request[domain.Ack](ctx, c, call{
		method:   http.MethodPut,
		path:     "/admin/bookings" + segment(id) + "/status",
		route:    "/admin/bookings/:id/status",
		body:     domain.BookingStatusInput{Status: status},
		validate: true,
	})
}
