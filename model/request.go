// model/request.go
package model

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// RentalRequest is a borrower's proposal for a date range on a listing.
// Terminal states are approved and rejected; requests are never deleted.
type RentalRequest struct {
	ID          int64         `json:"id"`
	ListingID   int64         `json:"listing_id"`
	RequesterID int64         `json:"requester_id"`
	OwnerID     int64         `json:"owner_id"`
	StartDate   time.Time     `json:"requested_start_date"`
	EndDate     time.Time     `json:"requested_end_date"`
	Message     *string       `json:"message,omitempty"`
	Status      RequestStatus `json:"status"`
	TotalCost   float64       `json:"total_cost"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Joined listing fields for list views.
	BookTitle  string `json:"book_title,omitempty"`
	BookAuthor string `json:"book_author,omitempty"`
}
