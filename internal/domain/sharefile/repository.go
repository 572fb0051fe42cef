package sharefile

import (
	"context"

	"github.com/Xeyame/sharry/internal/domain/blob"
	"github.com/Xeyame/sharry/internal/domain/share"
)

type Repository interface {
	CreateShareFile(ctx context.Context, req ShareFile) (*ShareFile, error)
	FetchShareFile(ctx context.Context, id ID) (*ShareFile, error)
	FetchShareFiles(ctx context.Context, shareID share.ID) (ShareFiles, error)

	// UpdateRealSize persists upload progress. Called after every newly
	// created chunk so concurrent quota checks see partial progress.
	UpdateRealSize(ctx context.Context, id ID, realSize uint64) error

	// SumRealSize aggregates the live real size of every file in the
	// share. Never cached; this is the quota enforcer's ground truth.
	SumRealSize(ctx context.Context, shareID share.ID) (uint64, error)

	DeleteShareFile(ctx context.Context, id ID) error

	// ExistsByBlobID reports whether any file row references the blob.
	// Used by the orphan sweep.
	ExistsByBlobID(ctx context.Context, blobID blob.ID) (bool, error)
}
