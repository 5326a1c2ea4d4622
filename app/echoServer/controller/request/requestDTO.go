package request

type CreateRequestReq struct {
	ListingID int64  `json:"listing_id" validate:"required,gt=0"`
	StartDate string `json:"requested_start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"requested_end_date" validate:"required,datetime=2006-01-02"`
	Message   string `json:"message" validate:"max=500"`
}
