package domain

import "time"

// BookingStatus is the lifecycle state of a booking as reported by the server.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking covers both the customer view and the admin view; the admin listing
// adds the user fields.
type Booking struct {
	ID              string        `json:"id"`
	PackageID       string        `json:"package_id,omitempty"`
	PackageTitle    string        `json:"package_title,omitempty"`
	UserName        string        `json:"user_name,omitempty"`
	UserEmail       string        `json:"user_email,omitempty"`
	BookingDate     string        `json:"booking_date"`
	NumberOfPeople  int           `json:"number_of_people"`
	TotalAmount     int64         `json:"total_amount"`
	Status          BookingStatus `json:"status"`
	SpecialRequests *string       `json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// BookingInput is the body posted to /bookings.
type BookingInput struct {
	PackageID       string  `json:"package_id" validate:"required"`
	BookingDate     string  `json:"booking_date" validate:"required,datetime=2006-01-02"`
	NumberOfPeople  int     `json:"number_of_people" validate:"gte=1"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// BookingStatusInput is the admin status update body.
type BookingStatusInput struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}
