package listingrepo

import (
	"context"
	"database/sql"

	"github.com/moin-0887/pustak/model"
)

// Filter narrows the browse query; zero values mean "no filter".
type Filter struct {
	Genre         string
	Search        string
	AvailableOnly bool
}

type Repo interface {
	Create(ctx context.Context, l *model.Listing) error
	ByID(ctx context.Context, id int64) (*model.Listing, error)
	Browse(ctx context.Context, f Filter) ([]model.Listing, error)
	ByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
	HasActiveRental(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const listingCols = `
	id, owner_id, title, author, COALESCE(genre,''), COALESCE(description,''),
	COALESCE(isbn,''), condition, publication_year, price_per_day,
	max_rental_duration, cover_url, is_available, created_at, updated_at`

func (r *repo) Create(ctx context.Context, l *model.Listing) error {
	const q = `
		INSERT INTO listings
			(owner_id, title, author, genre, description, isbn, condition,
			 publication_year, price_per_day, max_rental_duration, cover_url)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),$7,$8,$9,$10,$11)
		RETURNING id, is_available, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		l.OwnerID, l.Title, l.Author, l.Genre, l.Description, l.ISBN,
		l.Condition, l.PublicationYear, l.PricePerDay, l.MaxRentalDays, l.CoverURL,
	).Scan(&l.ID, &l.IsAvailable, &l.CreatedAt, &l.UpdatedAt)
}

func scanListing(row interface{ Scan(...any) error }, l *model.Listing) error {
	return row.Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.Author, &l.Genre, &l.Description,
		&l.ISBN, &l.Condition, &l.PublicationYear, &l.PricePerDay,
		&l.MaxRentalDays, &l.CoverURL, &l.IsAvailable, &l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Listing, error) {
	const q = `SELECT` + listingCols + `
		FROM listings WHERE id = $1`
	l := &model.Listing{}
	if err := scanListing(r.db.QueryRowContext(ctx, q, id), l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repo) Browse(ctx context.Context, f Filter) ([]model.Listing, error) {
	const q = `
		SELECT` + listingCols + `
		FROM listings
		WHERE ($1 = '' OR genre = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR author ILIKE '%' || $2 || '%')
		  AND (NOT $3 OR is_available)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, f.Genre, f.Search, f.AvailableOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repo) ByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error) {
	const q = `
		SELECT` + listingCols + `
		FROM listings
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Listing, error) {
	var out []model.Listing
	for rows.Next() {
		var l model.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) SetAvailability(ctx context.Context, id int64, available bool) error {
	const q = `
		UPDATE listings
		SET is_available = $2, updated_at = NOW()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, available)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) HasActiveRental(ctx context.Context, id int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM rentals
			WHERE listing_id = $1 AND status IN ('active','overdue')
		)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, id).Scan(&exists)
	return exists, err
}
