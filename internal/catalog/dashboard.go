package catalog

import (
	"context"
	"sort"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

const recentBookings = 5

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers     int64            `json:"total_users"`
	TotalPackages  int64            `json:"total_packages"`
	TotalBookings  int64            `json:"total_bookings"`
	TotalRevenue   int64            `json:"total_revenue"`
	RecentBookings []domain.Booking `json:"recent_bookings"`
	Degraded       bool             `json:"degraded,omitempty"`
}

type Dashboard struct {
	users    *Users
	packages *Packages
	bookings *Bookings
}

// Stats aggregates users, packages and bookings. Revenue counts every
// booking that is not cancelled.
func (d *Dashboard) Stats(ctx context.Context) (Stats, error) {
	users, err := d.users.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	packages, err := d.packages.All(ctx, domain.PackageListParams{})
	if err != nil {
		return Stats{}, err
	}
	bookings, err := d.bookings.All(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalUsers:    users.Total,
		TotalPackages: packages.Total,
		TotalBookings: bookings.Total,
		Degraded:      users.Degraded || packages.Degraded || bookings.Degraded,
	}
	for _, bk := range bookings.Items {
		if bk.Status != domain.BookingCancelled {
			st.TotalRevenue += bk.TotalAmount
		}
	}

	recent := cloned(bookings.Items)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentBookings {
		recent = recent[:recentBookings]
	}
	st.RecentBookings = recent
	return st, nil
}
