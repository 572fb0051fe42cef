package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/blob"
)

const deleteBufferSize = 256

// BlobDeleter detaches blob deletion from the request path: delete
// responses return as soon as the metadata is gone, the bytes follow
// in the background. A failed or dropped deletion leaves an orphan for
// the next sweep to collect.
type BlobDeleter struct {
	blobs ports.BlobStore
	log   *zap.Logger
	in    chan blob.ID
}

func NewBlobDeleter(blobs ports.BlobStore, logger *zap.Logger) ports.BlobDeleter {
	return &BlobDeleter{
		blobs: blobs,
		log:   logger,
		in:    make(chan blob.ID, deleteBufferSize),
	}
}

func (d *BlobDeleter) Enqueue(id blob.ID) {
	select {
	case d.in <- id:
	default:
		d.log.Warn("blob delete queue full, leaving blob to the orphan sweep",
			zap.String("blob_id", id.String()))
	}
}

func (d *BlobDeleter) Worker(ctx context.Context) {
	d.log.Info("starting blob deleter worker")

	defer func() {
		d.log.Info("blob deleter worker gracefully stopped")
	}()

	for {
		select {
		case id := <-d.in:
			if err := d.blobs.DeleteBlob(ctx, id); err != nil {
				// orphan sweep is the backstop
				d.log.Error("background blob delete failed",
					zap.String("blob_id", id.String()), zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
