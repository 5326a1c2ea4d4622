// repository/rental/repo.go
package rentalrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/moin-0887/pustak/model"
)

type Repo interface {
	// InsertFromRequest creates the rental spawned by an approved request.
	// Runs inside the approval transaction.
	InsertFromRequest(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, rentalID int64, at time.Time) error
	ReleaseListing(ctx context.Context, tx *sql.Tx, listingID int64) error

	ListByBorrower(ctx context.Context, borrowerID int64) ([]model.Rental, error)

	// MarkOverdue flips every past-due active rental and returns the count.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) InsertFromRequest(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error) {
	const q = `
		INSERT INTO rentals
			(request_id, borrower_id, listing_id, rental_date, due_date, total_cost, status)
		VALUES ($1,$2,$3,$4,$5,$6,'active')
		RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, q,
		rr.ID, rr.RequesterID, rr.ListingID, rr.StartDate, rr.EndDate, rr.TotalCost,
	).Scan(&id)
	return id, err
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
	const q = `
		SELECT id, request_id, borrower_id, listing_id, rental_date, due_date,
			return_date, status, total_cost, created_at
		FROM rentals
		WHERE id = $1
		FOR UPDATE`
	rental := &model.Rental{}
	err := tx.QueryRowContext(ctx, q, rentalID).Scan(
		&rental.ID, &rental.RequestID, &rental.BorrowerID, &rental.ListingID,
		&rental.RentalDate, &rental.DueDate, &rental.ReturnDate,
		&rental.Status, &rental.TotalCost, &rental.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, rentalID int64, at time.Time) error {
	const q = `
		UPDATE rentals
		SET status = 'returned',
			return_date = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, rentalID, at)
	return err
}

func (r *repo) ReleaseListing(ctx context.Context, tx *sql.Tx, listingID int64) error {
	const q = `
		UPDATE listings
		SET is_available = TRUE, updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, listingID)
	return err
}

func (r *repo) ListByBorrower(ctx context.Context, borrowerID int64) ([]model.Rental, error) {
	const q = `
		SELECT
			r.id, r.request_id, r.borrower_id, r.listing_id, r.rental_date,
			r.due_date, r.return_date, r.status, r.total_cost, r.created_at,
			l.title, l.author
		FROM rentals r
		JOIN listings l ON l.id = r.listing_id
		WHERE r.borrower_id = $1
		ORDER BY r.rental_date DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, borrowerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rental
	for rows.Next() {
		var rental model.Rental
		if err := rows.Scan(
			&rental.ID, &rental.RequestID, &rental.BorrowerID, &rental.ListingID,
			&rental.RentalDate, &rental.DueDate, &rental.ReturnDate,
			&rental.Status, &rental.TotalCost, &rental.CreatedAt,
			&rental.BookTitle, &rental.BookAuthor,
		); err != nil {
			return nil, err
		}
		out = append(out, rental)
	}
	return out, rows.Err()
}

func (r *repo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE rentals
		SET status = 'overdue'
		WHERE status = 'active'
		  AND due_date < $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
