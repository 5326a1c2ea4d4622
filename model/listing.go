// model/listing.go
package model

import "time"

type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Listing is a book a user offers for rent.
type Listing struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"owner_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre,omitempty"`
	Description     string    `json:"description,omitempty"`
	ISBN            string    `json:"isbn,omitempty"`
	Condition       Condition `json:"condition"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	PricePerDay     float64   `json:"price_per_day"`
	MaxRentalDays   int       `json:"max_rental_duration"`
	CoverURL        *string   `json:"cover_url,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
