// Package catalog wraps the API client with the listing behaviour of the
// portal screens: page-shaped results and an opt-in offline fallback that is
// always flagged as degraded.
package catalog

import (
	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-portal/internal/apiclient"
	"github.com/wanderlust/travel-portal/internal/metrics"
)

// Resource names used in logs and the fallback metric.
const (
	ResourcePackages   = "packages"
	ResourceCategories = "categories"
	ResourceBlog       = "blog"
	ResourceUsers      = "users"
	ResourceBookings   = "bookings"
)

// Listing is the result of a list read. Degraded marks items that came from
// offline sample data instead of the backend; Reason then holds the live error.
type Listing[T any] struct {
	Items    []T    `json:"items"`
	Total    int64  `json:"total"`
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type base struct {
	api      *apiclient.Client
	fallback bool
	log      zerolog.Logger
}

// Option configures a Catalog.
type Option func(*base)

// WithFallback serves sample data when a list read fails.
func WithFallback(enabled bool) Option {
	return func(b *base) { b.fallback = enabled }
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *base) { b.log = l }
}

// Catalog groups the per-resource helpers over one client.
type Catalog struct {
	Packages   *Packages
	Categories *Categories
	Blog       *Blog
	Users      *Users
	Bookings   *Bookings
	Dashboard  *Dashboard
}

func New(api *apiclient.Client, opts ...Option) *Catalog {
	b := &base{api: api, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}

	c := &Catalog{
		Packages:   &Packages{b},
		Categories: &Categories{b},
		Blog:       &Blog{b},
		Users:      &Users{b},
		Bookings:   &Bookings{b},
	}
	c.Dashboard = &Dashboard{users: c.Users, packages: c.Packages, bookings: c.Bookings}
	return c
}

// list turns a live response into a Listing, substituting sample data when
// the call failed and fallback is on. page extracts the items and the total.
func list[T, U any](b *base, resource string, res apiclient.Response[U], page func(U) ([]T, int64), sample func(sampleSet) []T) (Listing[T], error) {
	if res.OK() {
		items, total := page(*res.Data)
		if items == nil {
			items = []T{}
		}
		return Listing[T]{Items: items, Total: total}, nil
	}
	if !b.fallback || sample == nil {
		return Listing[T]{}, res.Err()
	}

	set, err := loadSamples()
	if err != nil {
		b.log.Error().Err(err).Msg("offline samples unavailable")
		return Listing[T]{}, res.Err()
	}

	b.log.Warn().
		Str("resource", resource).
		Int("status", res.StatusCode).
		Str("reason", res.Error).
		Msg("backend unavailable, serving offline sample data")
	metrics.FallbackServedTotal.WithLabelValues(resource).Inc()

	items := cloned(sample(set))
	return Listing[T]{Items: items, Total: int64(len(items)), Degraded: true, Reason: res.Error}, nil
}

func slice[T any](items []T) ([]T, int64) {
	return items, int64(len(items))
}

// unwrap converts a single-item response to the usual (value, error) pair.
func unwrap[T any](res apiclient.Response[T]) (T, error) {
	if err := res.Err(); err != nil {
		var zero T
		return zero, err
	}
	return *res.Data, nil
}
