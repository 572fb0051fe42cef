package alias

import (
	"context"

	"github.com/Xeyame/sharry/internal/domain/account"
)

type Repository interface {
	// FetchAlias loads an alias scoped to the given account. The alias
	// itself is trusted; the authentication layer validated it before
	// issuing the caller's token.
	FetchAlias(ctx context.Context, accountID account.ID, aliasID account.AliasID) (*Alias, error)
}
