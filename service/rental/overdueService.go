package rental

import (
	"context"
	"time"
)

// Sweeper persists the overdue status for past-due active rentals. It runs on
// the cron schedule from config; reads derive the same status lazily, so the
// sweep only makes the stored rows catch up.
type Sweeper interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

type SweepRepo interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type sweeper struct {
	r SweepRepo
}

func NewSweeper(r SweepRepo) Sweeper { return &sweeper{r: r} }

func (s *sweeper) MarkOverdue(ctx context.Context) (int64, error) {
	return s.r.MarkOverdue(ctx, time.Now().UTC())
}
