package domain

import (
	"encoding/json"
	"time"
)

// Package is a sellable travel package.
type Package struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        int64           `json:"price"`
	DurationDays int             `json:"duration_days"`
	MaxPeople    int             `json:"max_people"`
	CategoryID   string          `json:"category_id,omitempty"`
	Category     *string         `json:"category,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Highlights   []string        `json:"highlights"`
	Inclusions   []string        `json:"inclusions"`
	Exclusions   []string        `json:"exclusions"`
	Itinerary    json.RawMessage `json:"itinerary,omitempty"`
	IsFeatured   bool            `json:"is_featured"`
	IsActive     *bool           `json:"is_active,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Quote returns the total price for the given number of travelers.
// MaxPeople of zero means the package does not cap group size.
func (p Package) Quote(travelers int) (int64, error) {
	if travelers < 1 {
		return 0, ErrInvalidTravelers
	}
	if p.MaxPeople > 0 && travelers > p.MaxPeople {
		return 0, ErrTooManyTravelers
	}
	return p.Price * int64(travelers), nil
}

// PackagePage is one page of the package listing.
type PackagePage struct {
	Packages []Package `json:"packages"`
	Total    int64     `json:"total"`
}

// PackageInput is the admin create/update body for a package.
type PackageInput struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description" validate:"required,min=10"`
	Price        int64           `json:"price" validate:"gte=1"`
	DurationDays int             `json:"duration_days" validate:"gte=1"`
	MaxPeople    int             `json:"max_people" validate:"gte=1"`
	CategoryID   string          `json:"category_id" validate:"required"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Highlights   []string        `json:"highlights"`
	Inclusions   []string        `json:"inclusions"`
	Exclusions   []string        `json:"exclusions"`
	Itinerary    json.RawMessage `json:"itinerary,omitempty"`
	IsFeatured   *bool           `json:"is_featured,omitempty"`
}

// PackageListParams controls the public package listing. Featured routes the
// request to the featured listing; Limit and Offset page the regular one.
type PackageListParams struct {
	Limit    int
	Offset   int
	Featured bool
}

// PageParams pages a listing.
type PageParams struct {
	Limit  int
	Offset int
}
