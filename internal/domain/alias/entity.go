package alias

import (
	"time"

	"github.com/Xeyame/sharry/internal/domain/account"
)

// Alias is a secondary identity an account authenticates through. It
// is managed by the account subsystem; this engine only reads it to
// apply the alias-configured defaults when a share is created.
type Alias struct {
	ID        account.AliasID
	AccountID account.ID

	Name string
	// Validity overrides the caller-supplied share validity when the
	// share is created through this alias.
	Validity time.Duration

	CreatedAt time.Time
}
