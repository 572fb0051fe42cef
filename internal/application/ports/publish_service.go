package ports

import (
	"context"

	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/domain/publishlink"
	"github.com/Xeyame/sharry/internal/domain/share"
)

type PublishService interface {
	// Publish makes the share publicly addressable. Publishing an
	// already-active share is a no-op; republishing an inactive link
	// keeps its old public id only when reuseID is set.
	Publish(ctx context.Context, caller account.Ref, shareID share.ID, reuseID bool) (*publishlink.PublishLink, error)

	// Unpublish deactivates the link but retains its public id so a
	// later reuse-publish restores the same address.
	Unpublish(ctx context.Context, caller account.Ref, shareID share.ID) error
}
