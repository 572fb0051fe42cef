package ports

import (
	"context"
	"io"

	"github.com/Xeyame/sharry/internal/domain/blob"
)

// BlobStore is the external content-addressed chunk store. Chunk
// appends are idempotent by index: replaying an index that already
// holds bytes reports Unmodified and stores nothing.
type BlobStore interface {
	// CreatePlaceholder allocates an empty blob and returns its id.
	// declaredSize is a hint from the caller, not a commitment.
	CreatePlaceholder(ctx context.Context, mimeHint string, declaredSize uint64, chunkSize uint32) (blob.ID, error)

	AppendChunk(ctx context.Context, id blob.ID, index uint32, data []byte) (blob.AppendOutcome, error)

	// DeleteBlob removes the blob and all its chunks. Deleting an
	// already-deleted blob is a no-op.
	DeleteBlob(ctx context.Context, id blob.ID) error

	// ReadRange streams length bytes starting at offset. length < 0
	// reads to the end of the blob.
	ReadRange(ctx context.Context, id blob.ID, offset, length int64) (io.ReadCloser, error)

	// ListBlobs enumerates every stored blob id, for the orphan sweep.
	ListBlobs(ctx context.Context) ([]blob.ID, error)
}
