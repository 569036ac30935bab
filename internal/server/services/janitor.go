package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/phoneauth/internal/logging"
	"github.com/dmitrijs2005/phoneauth/internal/server/repositories/revokedtokens"
)

// Janitor periodically purges revocation records of tokens that have expired
// on their own.
type Janitor struct {
	repo     revokedtokens.Repository
	interval time.Duration
	logger   logging.Logger
	now      func() time.Time
}

func NewJanitor(repo revokedtokens.Repository, interval time.Duration, logger logging.Logger) *Janitor {
	return &Janitor{
		repo:     repo,
		interval: interval,
		logger:   logger.With("module", "janitor"),
		now:      time.Now,
	}
}

// RunOnce deletes every record whose token expired before now.
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	return j.repo.DeleteExpired(ctx, j.now())
}

// Run sweeps once immediately and then every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	n, err := j.RunOnce(ctx)
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Error(ctx, "purging revoked tokens failed", "error", err)
		}
		return
	}
	if n > 0 {
		j.logger.Debug(ctx, "purged revoked tokens", "count", n)
	}
}
