package ports

import (
	"context"

	"github.com/Xeyame/sharry/internal/domain/blob"
)

// BlobDeleter runs blob deletion off the critical path of delete
// responses. Failures are logged, not surfaced; the orphan sweep is
// the correctness backstop.
type BlobDeleter interface {
	Enqueue(id blob.ID)
	Worker(ctx context.Context)
}
