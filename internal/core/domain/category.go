package domain

import "time"

// Category groups packages (domestic, international, adventure, ...).
type Category struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	Icon         *string    `json:"icon,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
	PackageCount *int64     `json:"package_count,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// CategoryInput is the admin create/update body for a category.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}
