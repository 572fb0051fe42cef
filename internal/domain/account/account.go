package account

import (
	"github.com/google/uuid"
)

type (
	ID      = uuid.UUID
	AliasID = uuid.UUID
)

// Ref identifies the subject of an owner-scoped operation: either a
// direct account, or an alias the account authenticated through. The
// two forms are only constructible via ByAccount and ByAlias so that
// authorization logic can rely on the invariant "exactly one owner
// context".
type Ref struct {
	account ID
	alias   *AliasID
}

func ByAccount(id ID) Ref {
	return Ref{account: id}
}

func ByAlias(accountID ID, aliasID AliasID) Ref {
	a := aliasID
	return Ref{account: accountID, alias: &a}
}

func (r Ref) Account() ID { return r.account }

// Alias returns the alias the caller authenticated through, if any.
func (r Ref) Alias() (AliasID, bool) {
	if r.alias == nil {
		return AliasID{}, false
	}
	return *r.alias, true
}
