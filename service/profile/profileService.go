package profilesvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/moin-0887/pustak/model"
	profilerepo "github.com/moin-0887/pustak/repository/profile"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrBadInput      = errors.New("bad input")
	ErrUsernameTaken = errors.New("username already taken")
)

type Service interface {
	Get(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) (*model.Profile, error)
}

type service struct{ pr profilerepo.Repo }

func New(pr profilerepo.Repo) Service { return &service{pr} }

func (s *service) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	p, err := s.pr.ByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Username = strings.TrimSpace(p.Username)
	if p.FullName == "" || len(p.Username) < 3 {
		return nil, ErrBadInput
	}
	if err := s.pr.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return p, nil
}
