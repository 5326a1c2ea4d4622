package profilerepo

import (
	"context"
	"database/sql"

	"github.com/moin-0887/pustak/model"
)

type Repo interface {
	ByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, username, avatar_url, updated_at
		FROM users
		WHERE id = $1`,
		userID,
	).Scan(&p.UserID, &p.FullName, &p.Username, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Update(ctx context.Context, p *model.Profile) error {
	const q = `
		UPDATE users
		SET full_name = $2,
			username = $3,
			avatar_url = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.db.QueryRowContext(ctx, q, p.UserID, p.FullName, p.Username, p.AvatarURL).
		Scan(&p.UpdatedAt)
}
