package dashboard

import (
	"context"
	"time"

	"github.com/moin-0887/pustak/model"
)

// Stats is the summary block shown at the top of the dashboard.
type Stats struct {
	TotalListedBooks int     `json:"total_listed_books"`
	ActiveRentals    int     `json:"active_rentals"`
	PendingRequests  int     `json:"pending_requests"`
	TotalEarnings    float64 `json:"total_earnings"`
}

// Summary bundles the stats with the collections they were computed from, so
// one call feeds the whole page.
type Summary struct {
	Stats    Stats                 `json:"stats"`
	Listings []model.Listing       `json:"listings"`
	Incoming []model.RentalRequest `json:"incoming_requests"`
	Borrowed []model.Rental        `json:"borrowed_books"`
}

// Summarize computes the dashboard stats from fetched collections. Earnings
// count at approval time, not at return; that mirrors how owners see money
// "committed" the moment they approve.
func Summarize(listings []model.Listing, incoming []model.RentalRequest, borrowed []model.Rental, now time.Time) Stats {
	st := Stats{TotalListedBooks: len(listings)}
	for _, r := range borrowed {
		if r.EffectiveStatus(now) == model.RentalActive {
			st.ActiveRentals++
		}
	}
	for _, rr := range incoming {
		switch rr.Status {
		case model.RequestPending:
			st.PendingRequests++
		case model.RequestApproved:
			st.TotalEarnings += rr.TotalCost
		}
	}
	return st
}

type ListingRepo interface {
	ByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error)
}

type RequestRepo interface {
	Incoming(ctx context.Context, ownerID int64) ([]model.RentalRequest, error)
}

type RentalRepo interface {
	ListByBorrower(ctx context.Context, borrowerID int64) ([]model.Rental, error)
}

type Service interface {
	Summary(ctx context.Context, userID int64) (*Summary, error)
}

type service struct {
	lr  ListingRepo
	rr  RequestRepo
	rer RentalRepo
	now func() time.Time
}

func New(lr ListingRepo, rr RequestRepo, rer RentalRepo) Service {
	return &service{lr: lr, rr: rr, rer: rer, now: time.Now}
}

func (s *service) Summary(ctx context.Context, userID int64) (*Summary, error) {
	listings, err := s.lr.ByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.rr.Incoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	borrowed, err := s.rer.ListByBorrower(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range borrowed {
		borrowed[i].Status = borrowed[i].EffectiveStatus(now)
	}

	return &Summary{
		Stats:    Summarize(listings, incoming, borrowed, now),
		Listings: listings,
		Incoming: incoming,
		Borrowed: borrowed,
	}, nil
}
