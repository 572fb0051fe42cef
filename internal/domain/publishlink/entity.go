package publishlink

import (
	"time"

	"github.com/Xeyame/sharry/internal/domain/share"
)

// PublishLink makes a share publicly addressable through a stable or
// rotating public identifier. At most one link exists per share; it is
// flipped between active and inactive rather than recreated, so that a
// reuse-publish can restore the previous identifier.
type PublishLink struct {
	ShareID  share.ID
	PublicID string

	Active bool
	// ReuseID records whether a future republish should keep the old
	// public identifier instead of minting a fresh one.
	ReuseID bool

	Views       int
	PublishedAt time.Time
}
