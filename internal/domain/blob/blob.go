package blob

// ID is the opaque content identifier handed out by the blob store.
// A blob is exclusively owned by the share file referencing it.
type ID string

func (id ID) String() string { return string(id) }

// AppendOutcome distinguishes a chunk append that stored new bytes
// from a replay of an already-stored chunk index. Replays are size
// neutral, which is what makes client retries safe.
type AppendOutcome uint8

const (
	Created AppendOutcome = iota
	Unmodified
)
