package request

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/moin-0887/pustak/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrListingNotFound    ErrCode = "LISTING_NOT_FOUND"
	ErrUnavailable        ErrCode = "LISTING_UNAVAILABLE"
	ErrOwnListing         ErrCode = "OWN_LISTING"
	ErrMissingDates       ErrCode = "MISSING_DATES"
	ErrStartInPast        ErrCode = "START_IN_PAST"
	ErrEndNotAfterStart   ErrCode = "END_NOT_AFTER_START"
	ErrExceedsMaxDuration ErrCode = "EXCEEDS_MAX_DURATION"
	ErrNotOwner           ErrCode = "NOT_OWNER"
	ErrNotPending         ErrCode = "NOT_PENDING"
	ErrNotFound           ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// dto

type CreateReq struct {
	ListingID int64
	StartDate time.Time
	EndDate   time.Time
	Message   string
}

type Repo interface {
	Insert(ctx context.Context, rr *model.RentalRequest) error
	ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error)
	Transition(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error)
	HoldListing(ctx context.Context, tx *sql.Tx, listingID int64) error
	Incoming(ctx context.Context, ownerID int64) ([]model.RentalRequest, error)
	Outgoing(ctx context.Context, requesterID int64) ([]model.RentalRequest, error)
}

type ListingRepo interface {
	ByID(ctx context.Context, id int64) (*model.Listing, error)
}

type RentalRepo interface {
	InsertFromRequest(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error)
}

type Service interface {
	// Create validates the requested period against the listing and writes a
	// pending request with its computed cost.
	Create(ctx context.Context, requesterID int64, req CreateReq) (*model.RentalRequest, error)

	// Approve resolves a pending request and spawns the rental in one
	// transaction. Only the listing owner may approve.
	Approve(ctx context.Context, ownerID, requestID int64) (*model.RentalRequest, error)

	// Reject resolves a pending request with no side effects.
	Reject(ctx context.Context, ownerID, requestID int64) (*model.RentalRequest, error)

	Incoming(ctx context.Context, ownerID int64) ([]model.RentalRequest, error)
	Outgoing(ctx context.Context, requesterID int64) ([]model.RentalRequest, error)
}

// ----- Service implementation -----

type service struct {
	db  *sql.DB
	r   Repo
	lr  ListingRepo
	rr  RentalRepo
	now func() time.Time
}

func New(db *sql.DB, r Repo, lr ListingRepo, rr RentalRepo) Service {
	return &service{db: db, r: r, lr: lr, rr: rr, now: time.Now}
}

func (s *service) Create(ctx context.Context, requesterID int64, req CreateReq) (*model.RentalRequest, error) {
	listing, err := s.lr.ByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrListingNotFound)
		}
		return nil, err
	}
	if listing.OwnerID == requesterID {
		return nil, makeErr(ErrOwnListing)
	}
	if !listing.IsAvailable {
		return nil, makeErr(ErrUnavailable)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, makeErr(ErrMissingDates)
	}
	start := DateOnly(req.StartDate)
	end := DateOnly(req.EndDate)
	today := DateOnly(s.now())
	if start.Before(today) {
		return nil, makeErr(ErrStartInPast)
	}
	if !end.After(start) {
		return nil, makeErr(ErrEndNotAfterStart)
	}
	days := DurationDays(start, end)
	if days > listing.MaxRentalDays {
		return nil, makeErr(ErrExceedsMaxDuration)
	}

	rr := &model.RentalRequest{
		ListingID:   listing.ID,
		RequesterID: requesterID,
		OwnerID:     listing.OwnerID,
		StartDate:   start,
		EndDate:     end,
		TotalCost:   TotalCost(days, listing.PricePerDay),
	}
	if req.Message != "" {
		msg := req.Message
		rr.Message = &msg
	}
	if err := s.r.Insert(ctx, rr); err != nil {
		return nil, err
	}
	return rr, nil
}

func (s *service) Approve(ctx context.Context, ownerID, requestID int64) (*model.RentalRequest, error) {
	return s.resolve(ctx, ownerID, requestID, model.RequestApproved)
}

func (s *service) Reject(ctx context.Context, ownerID, requestID int64) (*model.RentalRequest, error) {
	return s.resolve(ctx, ownerID, requestID, model.RequestRejected)
}

// resolve flips a pending request to its terminal status. Approval also
// inserts the rental and holds the listing; all writes share one transaction
// so either every effect lands or none do.
func (s *service) resolve(ctx context.Context, ownerID, requestID int64, to model.RequestStatus) (_ *model.RentalRequest, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rr, err := s.r.ByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if rr.OwnerID != ownerID {
		return nil, makeErr(ErrNotOwner)
	}
	if rr.Status != model.RequestPending {
		return nil, makeErr(ErrNotPending)
	}

	ok, err := s.r.Transition(ctx, tx, requestID, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race between the read and the conditional update.
		return nil, makeErr(ErrNotPending)
	}
	rr.Status = to

	if to == model.RequestApproved {
		if _, err = s.rr.InsertFromRequest(ctx, tx, rr); err != nil {
			return nil, err
		}
		if err = s.r.HoldListing(ctx, tx, rr.ListingID); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rr, nil
}

func (s *service) Incoming(ctx context.Context, ownerID int64) ([]model.RentalRequest, error) {
	return s.r.Incoming(ctx, ownerID)
}

func (s *service) Outgoing(ctx context.Context, requesterID int64) ([]model.RentalRequest, error) {
	return s.r.Outgoing(ctx, requesterID)
}
