package share

import (
	"context"
	"time"

	"github.com/Xeyame/sharry/internal/domain/account"
)

type Repository interface {
	CreateShare(ctx context.Context, req Share) (*Share, error)
	FetchShare(ctx context.Context, id ID) (*Share, error)
	FetchShares(ctx context.Context, accountID account.ID, page int) (Shares, error)

	UpdateName(ctx context.Context, id ID, name string) error
	UpdateDescription(ctx context.Context, id ID, description string) error
	UpdateValidity(ctx context.Context, id ID, validity time.Duration) error
	UpdateMaxViews(ctx context.Context, id ID, maxViews int) error
	UpdatePasswordHash(ctx context.Context, id ID, hash *string) error

	// DeleteShare removes the share and, transactionally, its file and
	// publish-link rows. Blob cleanup is the caller's concern.
	DeleteShare(ctx context.Context, id ID) error

	// FetchExpiredPublished returns published shares created before the
	// given cutoff, for the expiry sweep.
	FetchExpiredPublished(ctx context.Context, olderThan time.Time) (Shares, error)
}
