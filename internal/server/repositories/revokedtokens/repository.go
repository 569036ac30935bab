// Package revokedtokens stores the ids of tokens that were logged out or
// replaced by a refresh. A token whose id is present here is no longer valid.
package revokedtokens

import (
	"context"
	"time"
)

type Repository interface {
	// Revoke records jti as revoked until expiresAt. It reports true when this
	// call revoked the token and false when it was already revoked.
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// DeleteExpired purges records whose token expired before now and returns
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
