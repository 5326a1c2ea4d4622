package request

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/moin-0887/pustak/model"
)

// --- mocks ---

type repoMock struct {
	insertFn        func(ctx context.Context, rr *model.RentalRequest) error
	byIDForUpdateFn func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error)
	transitionFn    func(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error)
	holdListingFn   func(ctx context.Context, tx *sql.Tx, listingID int64) error
	incomingFn      func(ctx context.Context, ownerID int64) ([]model.RentalRequest, error)
	outgoingFn      func(ctx context.Context, requesterID int64) ([]model.RentalRequest, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Insert(ctx context.Context, rr *model.RentalRequest) error {
	return m.insertFn(ctx, rr)
}
func (m *repoMock) ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
	return m.byIDForUpdateFn(ctx, tx, id)
}
func (m *repoMock) Transition(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error) {
	return m.transitionFn(ctx, tx, id, to)
}
func (m *repoMock) HoldListing(ctx context.Context, tx *sql.Tx, listingID int64) error {
	if m.holdListingFn == nil {
		return nil
	}
	return m.holdListingFn(ctx, tx, listingID)
}
func (m *repoMock) Incoming(ctx context.Context, ownerID int64) ([]model.RentalRequest, error) {
	return m.incomingFn(ctx, ownerID)
}
func (m *repoMock) Outgoing(ctx context.Context, requesterID int64) ([]model.RentalRequest, error) {
	return m.outgoingFn(ctx, requesterID)
}

type listingMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Listing, error)
}

func (m *listingMock) ByID(ctx context.Context, id int64) (*model.Listing, error) {
	return m.byIDFn(ctx, id)
}

type rentalMock struct {
	insertFn func(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error)
}

func (m *rentalMock) InsertFromRequest(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error) {
	if m.insertFn == nil {
		return 1, nil
	}
	return m.insertFn(ctx, tx, rr)
}

// --- helpers ---

var today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newSvc(t *testing.T, r *repoMock, lm *listingMock, rm *rentalMock) (*service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := New(db, r, lm, rm).(*service)
	svc.now = func() time.Time { return today.Add(10 * time.Hour) }
	return svc, mock
}

func availableListing() *model.Listing {
	return &model.Listing{
		ID:            7,
		OwnerID:       1,
		Title:         "The Hobbit",
		PricePerDay:   50,
		MaxRentalDays: 14,
		IsAvailable:   true,
	}
}

func pendingRequest() *model.RentalRequest {
	return &model.RentalRequest{
		ID:          99,
		ListingID:   7,
		RequesterID: 2,
		OwnerID:     1,
		StartDate:   today.AddDate(0, 0, 1),
		EndDate:     today.AddDate(0, 0, 4),
		Status:      model.RequestPending,
		TotalCost:   150,
	}
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	lm := &listingMock{byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
		return availableListing(), nil
	}}
	r := &repoMock{insertFn: func(ctx context.Context, rr *model.RentalRequest) error {
		rr.ID = 99
		rr.Status = model.RequestPending
		return nil
	}}
	svc, _ := newSvc(t, r, lm, &rentalMock{})

	out, err := svc.Create(context.Background(), 2, CreateReq{
		ListingID: 7,
		StartDate: today,
		EndDate:   today.AddDate(0, 0, 3),
		Message:   "picking up near the station",
	})
	require.NoError(t, err)
	require.Equal(t, int64(99), out.ID)
	require.Equal(t, model.RequestPending, out.Status)
	require.Equal(t, 150.0, out.TotalCost) // 3 days x 50/day
	require.Equal(t, int64(1), out.OwnerID)
	require.NotNil(t, out.Message)
}

func TestCreate_ListingNotFound(t *testing.T) {
	lm := &listingMock{byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
		return nil, sql.ErrNoRows
	}}
	svc, _ := newSvc(t, &repoMock{}, lm, &rentalMock{})

	_, err := svc.Create(context.Background(), 2, CreateReq{
		ListingID: 404, StartDate: today, EndDate: today.AddDate(0, 0, 2),
	})
	require.Equal(t, ErrListingNotFound, Code(err))
}

func TestCreate_OwnListing(t *testing.T) {
	lm := &listingMock{byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
		return availableListing(), nil
	}}
	svc, _ := newSvc(t, &repoMock{}, lm, &rentalMock{})

	_, err := svc.Create(context.Background(), 1, CreateReq{
		ListingID: 7, StartDate: today, EndDate: today.AddDate(0, 0, 2),
	})
	require.Equal(t, ErrOwnListing, Code(err))
}

func TestCreate_Unavailable(t *testing.T) {
	lm := &listingMock{byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
		l := availableListing()
		l.IsAvailable = false
		return l, nil
	}}
	svc, _ := newSvc(t, &repoMock{}, lm, &rentalMock{})

	_, err := svc.Create(context.Background(), 2, CreateReq{
		ListingID: 7, StartDate: today, EndDate: today.AddDate(0, 0, 2),
	})
	require.Equal(t, ErrUnavailable, Code(err))
}

func TestCreate_DateValidation(t *testing.T) {
	lm := &listingMock{byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
		l := availableListing()
		l.MaxRentalDays = 2
		return l, nil
	}}
	svc, _ := newSvc(t, &repoMock{}, lm, &rentalMock{})
	ctx := context.Background()

	cases := []struct {
		name       string
		start, end time.Time
		want       ErrCode
	}{
		{"missing dates", time.Time{}, time.Time{}, ErrMissingDates},
		{"start in past", today.AddDate(0, 0, -1), today.AddDate(0, 0, 2), ErrStartInPast},
		{"end equals start", today, today, ErrEndNotAfterStart},
		{"end before start", today.AddDate(0, 0, 3), today, ErrEndNotAfterStart},
		{"exceeds max duration", today, today.AddDate(0, 0, 3), ErrExceedsMaxDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 2, CreateReq{ListingID: 7, StartDate: tc.start, EndDate: tc.end})
			require.Equal(t, tc.want, Code(err))
		})
	}
}

func TestCreate_StartTodayLateInTheDay(t *testing.T) {
	// now is 10:00 on the start day; truncation must not reject it.
	lm := &listingMock{byIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
		return availableListing(), nil
	}}
	r := &repoMock{insertFn: func(ctx context.Context, rr *model.RentalRequest) error { return nil }}
	svc, _ := newSvc(t, r, lm, &rentalMock{})

	_, err := svc.Create(context.Background(), 2, CreateReq{
		ListingID: 7, StartDate: today, EndDate: today.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
}

// --- Approve / Reject ---

func TestApprove_Success(t *testing.T) {
	var inserted *model.RentalRequest
	var held int64

	r := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
			return pendingRequest(), nil
		},
		transitionFn: func(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error) {
			require.Equal(t, model.RequestApproved, to)
			return true, nil
		},
		holdListingFn: func(ctx context.Context, tx *sql.Tx, listingID int64) error {
			held = listingID
			return nil
		},
	}
	rm := &rentalMock{insertFn: func(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error) {
		inserted = rr
		return 55, nil
	}}
	svc, mock := newSvc(t, r, &listingMock{}, rm)

	mock.ExpectBegin()
	mock.ExpectCommit()

	out, err := svc.Approve(context.Background(), 1, 99)
	require.NoError(t, err)
	require.Equal(t, model.RequestApproved, out.Status)

	require.NotNil(t, inserted)
	require.Equal(t, int64(2), inserted.RequesterID)
	require.Equal(t, out.StartDate, inserted.StartDate)
	require.Equal(t, out.EndDate, inserted.EndDate)
	require.Equal(t, 150.0, inserted.TotalCost)
	require.Equal(t, int64(7), held)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_NoRentalCreated(t *testing.T) {
	r := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
			return pendingRequest(), nil
		},
		transitionFn: func(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error) {
			require.Equal(t, model.RequestRejected, to)
			return true, nil
		},
	}
	rm := &rentalMock{insertFn: func(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error) {
		t.Fatal("reject must not create a rental")
		return 0, nil
	}}
	svc, mock := newSvc(t, r, &listingMock{}, rm)

	mock.ExpectBegin()
	mock.ExpectCommit()

	out, err := svc.Reject(context.Background(), 1, 99)
	require.NoError(t, err)
	require.Equal(t, model.RequestRejected, out.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_NotOwner(t *testing.T) {
	r := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
			return pendingRequest(), nil
		},
	}
	svc, mock := newSvc(t, r, &listingMock{}, &rentalMock{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), 42, 99)
	require.Equal(t, ErrNotOwner, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_AlreadyResolved(t *testing.T) {
	r := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
			rr := pendingRequest()
			rr.Status = model.RequestApproved
			return rr, nil
		},
	}
	svc, mock := newSvc(t, r, &listingMock{}, &rentalMock{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), 1, 99)
	require.Equal(t, ErrNotPending, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_LostConditionalUpdateRace(t *testing.T) {
	r := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
			return pendingRequest(), nil
		},
		transitionFn: func(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error) {
			return false, nil
		},
	}
	svc, mock := newSvc(t, r, &listingMock{}, &rentalMock{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), 1, 99)
	require.Equal(t, ErrNotPending, Code(err))
}

func TestApprove_NotFound(t *testing.T) {
	r := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc, mock := newSvc(t, r, &listingMock{}, &rentalMock{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), 1, 404)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestApprove_RentalInsertFailureRollsBack(t *testing.T) {
	r := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.RentalRequest, error) {
			return pendingRequest(), nil
		},
		transitionFn: func(ctx context.Context, tx *sql.Tx, id int64, to model.RequestStatus) (bool, error) {
			return true, nil
		},
	}
	rm := &rentalMock{insertFn: func(ctx context.Context, tx *sql.Tx, rr *model.RentalRequest) (int64, error) {
		return 0, errors.New("db down")
	}}
	svc, mock := newSvc(t, r, &listingMock{}, rm)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), 1, 99)
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
