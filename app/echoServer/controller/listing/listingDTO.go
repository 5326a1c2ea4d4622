package listing

type CreateListingReq struct {
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Genre           string  `json:"genre"`
	Description     string  `json:"description"`
	ISBN            string  `json:"isbn"`
	Condition       string  `json:"condition" validate:"omitempty,oneof=excellent good fair poor"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,gte=1000,lte=2100"`
	PricePerDay     float64 `json:"price_per_day" validate:"required,gt=0"`
	MaxRentalDays   int     `json:"max_rental_duration" validate:"required,gt=0"`
	CoverURL        string  `json:"cover_url" validate:"omitempty,url"`
}

type SetAvailabilityReq struct {
	Available *bool `json:"available" validate:"required"`
}
