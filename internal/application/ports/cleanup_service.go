package ports

import (
	"context"
	"time"
)

// CleanupService is the expiry and orphan reaper. Both sweeps are
// idempotent and safe to run concurrently with normal traffic.
type CleanupService interface {
	// CleanupExpired deletes published shares created before
	// now-maxAge, cascading to their files and blobs. Returns the
	// number of shares deleted.
	CleanupExpired(ctx context.Context, maxAge time.Duration) (int, error)

	// DeleteOrphanedFiles deletes blobs no file record references.
	// Returns the number of blobs deleted.
	DeleteOrphanedFiles(ctx context.Context) (int, error)
}
