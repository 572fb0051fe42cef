package share

import (
	"time"

	"github.com/google/uuid"

	"github.com/Xeyame/sharry/internal/domain/account"
)

type (
	ID = uuid.UUID

	Share struct {
		ID        ID
		AccountID account.ID
		AliasID   *account.AliasID

		Name         string
		Description  string
		Validity     time.Duration
		MaxViews     int
		PasswordHash *string

		CreatedAt time.Time
	}
	Shares []*Share
)

// HasPassword reports whether public access to the share is
// password-gated.
func (s *Share) HasPassword() bool {
	return s.PasswordHash != nil && *s.PasswordHash != ""
}

// ExpiresAt is the instant after which a published share stops being
// publicly reachable.
func (s *Share) ExpiresAt() time.Time {
	return s.CreatedAt.Add(s.Validity)
}
