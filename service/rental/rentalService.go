package rental

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
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrNotBorrower     ErrCode = "NOT_BORROWER"
	ErrAlreadyReturned ErrCode = "ALREADY_RETURNED"
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

type Repo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, rentalID int64, at time.Time) error
	ReleaseListing(ctx context.Context, tx *sql.Tx, listingID int64) error
	ListByBorrower(ctx context.Context, borrowerID int64) ([]model.Rental, error)
}

type Service interface {
	// Return marks an active or overdue rental returned and frees the listing.
	// Only the borrower may return; returning twice is a conflict.
	Return(ctx context.Context, borrowerID, rentalID int64) error

	// MyRentals lists the borrower's rentals, deriving overdue at read time.
	MyRentals(ctx context.Context, borrowerID int64) ([]model.Rental, error)
}

// ----- Service implementation -----

type service struct {
	db  *sql.DB
	r   Repo
	now func() time.Time
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r, now: time.Now}
}

func (s *service) Return(ctx context.Context, borrowerID, rentalID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rental, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if rental.BorrowerID != borrowerID {
		return makeErr(ErrNotBorrower)
	}
	if rental.Status == model.RentalReturned {
		return makeErr(ErrAlreadyReturned)
	}

	if err = s.r.MarkReturned(ctx, tx, rentalID, s.now().UTC()); err != nil {
		return err
	}
	if err = s.r.ReleaseListing(ctx, tx, rental.ListingID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) MyRentals(ctx context.Context, borrowerID int64) ([]model.Rental, error) {
	rentals, err := s.r.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range rentals {
		rentals[i].Status = rentals[i].EffectiveStatus(now)
	}
	return rentals, nil
}
