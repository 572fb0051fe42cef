package ports

import (
	"context"
	"time"

	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/domain/publishlink"
	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

type (
	CreateShareRequest struct {
		Name        string
		Description string
		Validity    time.Duration
		MaxViews    int
		// Password is the plaintext to gate public access with; empty
		// means no password.
		Password string
	}

	ShareDetails struct {
		Share *share.Share
		Files sharefile.ShareFiles
		// Link is nil while the share has never been published.
		Link *publishlink.PublishLink
	}
)

type ShareService interface {
	CreateShare(ctx context.Context, caller account.Ref, req CreateShareRequest) (*share.Share, error)
	FindShares(ctx context.Context, caller account.Ref, page int) (share.Shares, error)

	// ShareDetails resolves either reference kind: private references
	// are authorized against caller, public references against the
	// share password (password is ignored for private references, and
	// caller for public ones).
	ShareDetails(ctx context.Context, ref share.Ref, caller account.Ref, password string) (*ShareDetails, error)

	SetName(ctx context.Context, caller account.Ref, shareID share.ID, name string) error
	SetDescription(ctx context.Context, caller account.Ref, shareID share.ID, description string) error
	SetValidity(ctx context.Context, caller account.Ref, shareID share.ID, validity time.Duration) error
	SetMaxViews(ctx context.Context, caller account.Ref, shareID share.ID, maxViews int) error
	// SetPassword hashes and stores the new password; nil clears it.
	SetPassword(ctx context.Context, caller account.Ref, shareID share.ID, password *string) error

	DeleteShare(ctx context.Context, caller account.Ref, shareID share.ID) error
}
