package share

// RefKind tags how a caller addresses a share: through its private,
// account-scoped id, or through an active publish link.
type RefKind uint8

const (
	RefPrivate RefKind = iota
	RefPublic
)

// Ref is the access-time identity of a share. The kind selects which
// authorization and password rules apply: private references are
// checked against ownership and never need the share password, public
// references resolve through a publish link and may require one.
type Ref struct {
	kind     RefKind
	id       ID
	publicID string
}

func PrivateRef(id ID) Ref {
	return Ref{kind: RefPrivate, id: id}
}

func PublicRef(publicID string) Ref {
	return Ref{kind: RefPublic, publicID: publicID}
}

func (r Ref) Kind() RefKind { return r.kind }

// ID is only meaningful for RefPrivate references.
func (r Ref) ID() ID { return r.id }

// PublicID is only meaningful for RefPublic references.
func (r Ref) PublicID() string { return r.publicID }
