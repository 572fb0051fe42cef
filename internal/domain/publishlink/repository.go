package publishlink

import (
	"context"

	"github.com/Xeyame/sharry/internal/domain/share"
)

type Repository interface {
	CreatePublishLink(ctx context.Context, req PublishLink) (*PublishLink, error)

	// FetchByShare returns the share's link regardless of its active
	// flag, or share.ErrNotFound if the share was never published.
	FetchByShare(ctx context.Context, shareID share.ID) (*PublishLink, error)

	// FetchActiveByPublicID resolves an anonymous caller's public id to
	// its link, active links only.
	FetchActiveByPublicID(ctx context.Context, publicID string) (*PublishLink, error)

	// UpdateLink rewrites the public id, active flag and reuse flag of
	// the share's link.
	UpdateLink(ctx context.Context, shareID share.ID, publicID string, active, reuseID bool) error

	IncrementViews(ctx context.Context, shareID share.ID) error
}
