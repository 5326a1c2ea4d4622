package listingsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/moin-0887/pustak/model"
	listingrepo "github.com/moin-0887/pustak/repository/listing"
	storagerepo "github.com/moin-0887/pustak/repository/storage"
)

type ErrCode string

const (
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrNotOwner        ErrCode = "NOT_OWNER"
	ErrBadInput        ErrCode = "BAD_INPUT"
	ErrHasActiveRental ErrCode = "HAS_ACTIVE_RENTAL"
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

var validConditions = map[model.Condition]bool{
	model.ConditionExcellent: true,
	model.ConditionGood:      true,
	model.ConditionFair:      true,
	model.ConditionPoor:      true,
}

type Repo interface {
	Create(ctx context.Context, l *model.Listing) error
	ByID(ctx context.Context, id int64) (*model.Listing, error)
	Browse(ctx context.Context, f listingrepo.Filter) ([]model.Listing, error)
	ByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
	HasActiveRental(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, l *model.Listing) error
	Browse(ctx context.Context, f listingrepo.Filter) ([]model.Listing, error)
	Detail(ctx context.Context, id int64) (*model.Listing, error)
	MyListings(ctx context.Context, ownerID int64) ([]model.Listing, error)
	SetAvailability(ctx context.Context, ownerID, id int64, available bool) error
	Delete(ctx context.Context, ownerID, id int64) error
	UploadCover(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type service struct {
	r  Repo
	st storagerepo.Repo
}

func New(r Repo, st storagerepo.Repo) Service { return &service{r: r, st: st} }

func (s *service) Create(ctx context.Context, l *model.Listing) error {
	if strings.TrimSpace(l.Title) == "" || strings.TrimSpace(l.Author) == "" {
		return makeErr(ErrBadInput)
	}
	if l.PricePerDay <= 0 || l.MaxRentalDays <= 0 {
		return makeErr(ErrBadInput)
	}
	if l.Condition == "" {
		l.Condition = model.ConditionGood
	}
	if !validConditions[l.Condition] {
		return makeErr(ErrBadInput)
	}
	return s.r.Create(ctx, l)
}

func (s *service) Browse(ctx context.Context, f listingrepo.Filter) ([]model.Listing, error) {
	return s.r.Browse(ctx, f)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Listing, error) {
	l, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return l, nil
}

func (s *service) MyListings(ctx context.Context, ownerID int64) ([]model.Listing, error) {
	return s.r.ByOwner(ctx, ownerID)
}

func (s *service) SetAvailability(ctx context.Context, ownerID, id int64, available bool) error {
	if err := s.mustOwn(ctx, ownerID, id); err != nil {
		return err
	}
	return s.r.SetAvailability(ctx, id, available)
}

func (s *service) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.mustOwn(ctx, ownerID, id); err != nil {
		return err
	}
	busy, err := s.r.HasActiveRental(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return makeErr(ErrHasActiveRental)
	}
	return s.r.Delete(ctx, id)
}

func (s *service) mustOwn(ctx context.Context, ownerID, id int64) error {
	l, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if l.OwnerID != ownerID {
		return makeErr(ErrNotOwner)
	}
	return nil
}

func (s *service) UploadCover(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", makeErr(ErrBadInput)
	}
	ext := path.Ext(filename)
	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	return s.st.UploadCover(name, contentType, data)
}
