package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

// CleanupService is the expiry and orphan reaper. Both sweeps tolerate
// repeated and concurrent runs: deleting an already-deleted record or
// blob is a no-op.
type CleanupService struct {
	shareRepo share.Repository
	fileRepo  sharefile.Repository
	blobs     ports.BlobStore
	log       *zap.Logger
	mCounter  *prometheus.CounterVec
}

func NewCleanupService(
	shareRepo share.Repository,
	fileRepo sharefile.Repository,
	blobs ports.BlobStore,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.CleanupService {
	return &CleanupService{
		shareRepo: shareRepo,
		fileRepo:  fileRepo,
		blobs:     blobs,
		log:       logger,
		mCounter:  mCounter,
	}
}

func (cs *CleanupService) CleanupExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	expired, err := cs.shareRepo.FetchExpiredPublished(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, s := range expired {
		files, err := cs.fileRepo.FetchShareFiles(ctx, s.ID)
		if err != nil {
			cs.log.Error("expiry sweep: fetching share files failed",
				zap.String("share_id", s.ID.String()), zap.Error(err))
			continue
		}

		if err = cs.shareRepo.DeleteShare(ctx, s.ID); err != nil {
			cs.log.Error("expiry sweep: share delete failed",
				zap.String("share_id", s.ID.String()), zap.Error(err))
			continue
		}

		for _, f := range files {
			if err = cs.blobs.DeleteBlob(ctx, f.BlobID); err != nil {
				// becomes an orphan; next sweep collects it
				cs.log.Error("expiry sweep: blob delete failed",
					zap.String("blob_id", f.BlobID.String()), zap.Error(err))
			}
		}

		count++
		cs.mCounter.WithLabelValues("expired_shares_reaped_total").Inc()
	}

	return count, nil
}

func (cs *CleanupService) DeleteOrphanedFiles(ctx context.Context) (int, error) {
	ids, err := cs.blobs.ListBlobs(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range ids {
		exists, err := cs.fileRepo.ExistsByBlobID(ctx, id)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}

		if err = cs.blobs.DeleteBlob(ctx, id); err != nil {
			cs.log.Error("orphan sweep: blob delete failed",
				zap.String("blob_id", id.String()), zap.Error(err))
			continue
		}

		count++
		cs.mCounter.WithLabelValues("orphan_blobs_reaped_total").Inc()
	}

	return count, nil
}
