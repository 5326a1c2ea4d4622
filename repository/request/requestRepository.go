// repository/request/repo.go
package requestrepo

import (
	"context"
	"database/sql"

	"github.com/moin-0887/pustak/model"
)

type Repo interface {
	Insert(ctx context.Context, rr *model.RentalRequest) error
	ByID(ctx context.Context, id int64) (*model.RentalRequest, error)

	// Transition flips a pending request to a terminal status. It reports
	// whether a row was actually updated; zero rows means the request was
	// missing or already resolved (the caller distinguishes the two).
	Transition(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error)
	ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error)

	// HoldListing marks the listing unavailable while a rental is out.
	// Runs inside the approval transaction.
	HoldListing(ctx context.Context, tx *sql.Tx, listingID int64) error

	Incoming(ctx context.Context, ownerID int64) ([]model.RentalRequest, error)
	Outgoing(ctx context.Context, requesterID int64) ([]model.RentalRequest, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, rr *model.RentalRequest) error {
	const q = `
		INSERT INTO rental_requests
			(listing_id, requester_id, owner_id, requested_start_date,
			 requested_end_date, message, status, total_cost)
		VALUES ($1,$2,$3,$4,$5,$6,'pending',$7)
		RETURNING id, status, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		rr.ListingID, rr.RequesterID, rr.OwnerID, rr.StartDate, rr.EndDate,
		rr.Message, rr.TotalCost,
	).Scan(&rr.ID, &rr.Status, &rr.CreatedAt, &rr.UpdatedAt)
}

const requestCols = `
	id, listing_id, requester_id, owner_id, requested_start_date,
	requested_end_date, message, status, total_cost, created_at, updated_at`

func scanRequest(row interface{ Scan(...any) error }, rr *model.RentalRequest) error {
	return row.Scan(
		&rr.ID, &rr.ListingID, &rr.RequesterID, &rr.OwnerID, &rr.StartDate,
		&rr.EndDate, &rr.Message, &rr.Status, &rr.TotalCost,
		&rr.CreatedAt, &rr.UpdatedAt,
	)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.RentalRequest, error) {
	const q = `SELECT` + requestCols + `
		FROM rental_requests WHERE id = $1`
	rr := &model.RentalRequest{}
	if err := scanRequest(r.db.QueryRowContext(ctx, q, id), rr); err != nil {
		return nil, err
	}
	return rr, nil
}

func (r *repo) ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
	const q = `SELECT` + requestCols + `
		FROM rental_requests
		WHERE id = $1
		FOR UPDATE`
	rr := &model.RentalRequest{}
	if err := scanRequest(tx.QueryRowContext(ctx, q, id), rr); err != nil {
		return nil, err
	}
	return rr, nil
}

func (r *repo) Transition(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error) {
	// Conditional on status to make approval exclusive under races.
	const q = `
		UPDATE rental_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'`
	res, err := tx.ExecContext(ctx, q, id, to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repo) HoldListing(ctx context.Context, tx *sql.Tx, listingID int64) error {
	const q = `
		UPDATE listings
		SET is_available = FALSE, updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, listingID)
	return err
}

func (r *repo) Incoming(ctx context.Context, ownerID int64) ([]model.RentalRequest, error) {
	return r.listFor(ctx, `owner_id`, ownerID)
}

func (r *repo) Outgoing(ctx context.Context, requesterID int64) ([]model.RentalRequest, error) {
	return r.listFor(ctx, `requester_id`, requesterID)
}

func (r *repo) listFor(ctx context.Context, col string, userID int64) ([]model.RentalRequest, error) {
	q := `
		SELECT
			rr.id, rr.listing_id, rr.requester_id, rr.owner_id,
			rr.requested_start_date, rr.requested_end_date, rr.message,
			rr.status, rr.total_cost, rr.created_at, rr.updated_at,
			l.title, l.author
		FROM rental_requests rr
		JOIN listings l ON l.id = rr.listing_id
		WHERE rr.` + col + ` = $1
		ORDER BY rr.created_at DESC, rr.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalRequest
	for rows.Next() {
		var rr model.RentalRequest
		if err := rows.Scan(
			&rr.ID, &rr.ListingID, &rr.RequesterID, &rr.OwnerID,
			&rr.StartDate, &rr.EndDate, &rr.Message, &rr.Status,
			&rr.TotalCost, &rr.CreatedAt, &rr.UpdatedAt,
			&rr.BookTitle, &rr.BookAuthor,
		); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
