package requestrepo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moin-0887/pustak/model"
	requestrepo "github.com/moin-0887/pustak/repository/request"
)

func newMock(t *testing.T) (requestrepo.Repo, *sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return requestrepo.New(db), db, mock
}

func TestRequestRepo_Insert(t *testing.T) {
	repo, _, mock := newMock(t)
	ctx := context.Background()

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	msg := "weekend read"
	rr := &model.RentalRequest{
		ListingID:   7,
		RequesterID: 2,
		OwnerID:     1,
		StartDate:   start,
		EndDate:     end,
		Message:     &msg,
		TotalCost:   150,
	}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO rental_requests").
		WithArgs(rr.ListingID, rr.RequesterID, rr.OwnerID, rr.StartDate, rr.EndDate, rr.Message, rr.TotalCost).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(int64(10), "pending", now, now))

	require.NoError(t, repo.Insert(ctx, rr))
	assert.Equal(t, int64(10), rr.ID)
	assert.Equal(t, model.RequestPending, rr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepo_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("RowUpdated", func(t *testing.T) {
		repo, db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE rental_requests").
			WithArgs(int64(10), model.RequestApproved).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		ok, err := repo.Transition(ctx, tx, 10, model.RequestApproved)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// Zero rows means the conditional update lost: the request was no
	// longer pending when the update ran.
	t.Run("AlreadyResolved", func(t *testing.T) {
		repo, db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE rental_requests").
			WithArgs(int64(10), model.RequestRejected).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		ok, err := repo.Transition(ctx, tx, 10, model.RequestRejected)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepo_HoldListing(t *testing.T) {
	repo, db, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE listings").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.HoldListing(ctx, tx, 7))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepo_Incoming(t *testing.T) {
	repo, _, mock := newMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "listing_id", "requester_id", "owner_id",
		"requested_start_date", "requested_end_date", "message",
		"status", "total_cost", "created_at", "updated_at",
		"title", "author",
	}).AddRow(int64(10), int64(7), int64(2), int64(1), now, now.AddDate(0, 0, 3), nil,
		"pending", 150.0, now, now, "The Hobbit", "Tolkien")

	mock.ExpectQuery("FROM rental_requests rr").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := repo.Incoming(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "The Hobbit", got[0].BookTitle)
	assert.Equal(t, model.RequestPending, got[0].Status)
	assert.Nil(t, got[0].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
