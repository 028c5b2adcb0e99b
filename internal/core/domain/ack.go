package domain

// Ack is the acknowledgement body of mutations. Only the id field matching
// the mutated resource is set, and only on create.
type Ack struct {
	Message    string `json:"message"`
	PackageID  string `json:"package_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	PostID     string `json:"post_id,omitempty"`
}

// BookingReceipt is returned by POST /bookings.
type BookingReceipt struct {
	Message     string `json:"message"`
	BookingID   string `json:"booking_id"`
	TotalAmount int64  `json:"total_amount"`
}
