// model/rental.go
package model

import "time"

type RentalStatus string

const (
	RentalActive   RentalStatus = "active"
	RentalReturned RentalStatus = "returned"
	RentalOverdue  RentalStatus = "overdue"
)

// Rental is a confirmed loan created from an approved request.
type Rental struct {
	ID         int64        `json:"id"`
	RequestID  int64        `json:"request_id"`
	BorrowerID int64        `json:"borrower_id"`
	ListingID  int64        `json:"listing_id"`
	RentalDate time.Time    `json:"rental_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     RentalStatus `json:"status"`
	TotalCost  float64      `json:"total_cost"`
	CreatedAt  time.Time    `json:"created_at"`

	BookTitle  string `json:"book_title,omitempty"`
	BookAuthor string `json:"book_author,omitempty"`
}

// EffectiveStatus derives overdue at read time: a rental still marked active
// whose due date has passed reads as overdue even before the sweep persists it.
func (r Rental) EffectiveStatus(now time.Time) RentalStatus {
	if r.Status == RentalActive && r.DueDate.Before(now) {
		return RentalOverdue
	}
	return r.Status
}
