package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/domain/blob"
	"github.com/Xeyame/sharry/internal/domain/share"
	domain "github.com/Xeyame/sharry/internal/domain/sharefile"
)

// UploadService drives the resumable upload protocol: an empty file
// placeholder is created first, then the client streams chunk-aligned
// slices of data at increasing offsets. Chunk application is
// idempotent by index, so a client retrying from its last acknowledged
// offset may replay chunks without inflating the file.
type UploadService struct {
	access   *Access
	fileRepo domain.Repository
	blobs    ports.BlobStore
	quota    *Quota
	deleter  ports.BlobDeleter
	mCounter *prometheus.CounterVec

	chunkSize uint32
}

func NewUploadService(
	access *Access,
	fileRepo domain.Repository,
	blobs ports.BlobStore,
	quota *Quota,
	deleter ports.BlobDeleter,
	mCounter *prometheus.CounterVec,
	chunkSize uint32,
) ports.UploadService {
	return &UploadService{
		access:    access,
		fileRepo:  fileRepo,
		blobs:     blobs,
		quota:     quota,
		deleter:   deleter,
		mCounter:  mCounter,
		chunkSize: chunkSize,
	}
}

func (us *UploadService) CreateEmptyFile(ctx context.Context, caller account.Ref, shareID share.ID, req ports.NewFileRequest) (*domain.ShareFile, error) {
	s, err := us.access.CheckShare(ctx, caller, shareID)
	if err != nil {
		return nil, err
	}

	if req.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", share.ErrValidation)
	}

	// the advertised length is only a pre-check hint; the stream may
	// prove it wrong either way
	if _, err = us.quota.CheckSize(ctx, s.ID, req.DeclaredSize); err != nil {
		return nil, err
	}

	blobID, err := us.blobs.CreatePlaceholder(ctx, req.MimeType, req.DeclaredSize, us.chunkSize)
	if err != nil {
		return nil, err
	}

	f, err := us.fileRepo.CreateShareFile(ctx, domain.ShareFile{
		ShareID:      s.ID,
		BlobID:       blobID,
		FileName:     sanitizeFileName(req.FileName),
		MimeType:     req.MimeType,
		DeclaredSize: req.DeclaredSize,
		RealSize:     0,
	})
	if err != nil {
		// the placeholder is now an orphan; the sweep collects it
		return nil, err
	}

	us.mCounter.WithLabelValues("share_files_created_total").Inc()

	return f, nil
}

func (us *UploadService) AddFileData(ctx context.Context, caller account.Ref, shareID share.ID, fileID domain.ID, offset, declaredSize uint64, data io.Reader) (uint64, error) {
	s, err := us.access.CheckShare(ctx, caller, shareID)
	if err != nil {
		return 0, err
	}
	f, err := us.fileRepo.FetchShareFile(ctx, fileID)
	if err != nil {
		return 0, err
	}
	if f.ShareID != s.ID {
		return 0, share.ErrNotFound
	}

	chunkSize := uint64(us.chunkSize)
	if offset%chunkSize != 0 {
		return 0, fmt.Errorf("%w: offset %d is not aligned to the %d byte chunk size", share.ErrValidation, offset, chunkSize)
	}

	if _, err = us.quota.CheckSize(ctx, s.ID, declaredSize); err != nil {
		return 0, err
	}

	realSize, newBytes, err := us.consumeStream(ctx, f, offset, data)
	if err != nil {
		// chunks applied before the failure stay persisted; the file
		// remains resumable from the last acknowledged offset
		return realSize, err
	}

	// the incremental sum can drift when chunks were replayed, so the
	// stream end re-derives the authoritative size from the offset
	if final := offset + newBytes; final > realSize {
		realSize = final
	}
	if err = us.fileRepo.UpdateRealSize(ctx, f.ID, realSize); err != nil {
		return realSize, err
	}

	over, err := us.quota.Exceeded(ctx, s.ID)
	if err != nil {
		return realSize, err
	}
	if over {
		// concurrent writers can jointly pass the pre-check; the write
		// that surfaces the overrun is the one rolled back
		if err = us.fileRepo.DeleteShareFile(ctx, f.ID); err != nil {
			return realSize, err
		}
		us.deleter.Enqueue(f.BlobID)
		us.mCounter.WithLabelValues("quota_rejected_total").Inc()
		return 0, &share.QuotaExceededError{MaxSize: us.quota.MaxSize()}
	}

	return realSize, nil
}

// consumeStream applies the byte stream chunk by chunk, persisting the
// running real size after every newly created chunk so that concurrent
// quota checks observe partial progress.
func (us *UploadService) consumeStream(ctx context.Context, f *domain.ShareFile, offset uint64, data io.Reader) (realSize, newBytes uint64, err error) {
	realSize = f.RealSize
	index := uint32(offset / uint64(us.chunkSize))
	buf := make([]byte, us.chunkSize)

	for {
		n, rerr := io.ReadFull(data, buf)
		done := errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF)
		if rerr != nil && !done {
			// a transport failure can truncate the chunk mid-read; the
			// partial bytes must not be stored, or the idempotent replay
			// of this index would report Unmodified and the chunk's tail
			// would be lost. Dropping them keeps the index free for the
			// client's retry of the full chunk.
			return realSize, newBytes, rerr
		}
		if n > 0 {
			outcome, aerr := us.blobs.AppendChunk(ctx, f.BlobID, index, buf[:n])
			if aerr != nil {
				return realSize, newBytes, aerr
			}
			index++

			if outcome == blob.Created {
				newBytes += uint64(n)
				realSize += uint64(n)
				if uerr := us.fileRepo.UpdateRealSize(ctx, f.ID, realSize); uerr != nil {
					return realSize, newBytes, uerr
				}
				us.mCounter.WithLabelValues("chunks_appended_total").Inc()
			}
		}
		if done {
			return realSize, newBytes, nil
		}
	}
}

func (us *UploadService) LoadFile(ctx context.Context, ref share.Ref, caller account.Ref, password string, fileID domain.ID, offset, length int64) (*domain.ShareFile, io.ReadCloser, error) {
	var s *share.Share
	var err error

	switch ref.Kind() {
	case share.RefPrivate:
		s, err = us.access.CheckShare(ctx, caller, ref.ID())
	case share.RefPublic:
		s, _, err = us.access.ResolvePublicAccess(ctx, ref.PublicID(), password)
	default:
		return nil, nil, fmt.Errorf("%w: unknown share reference", share.ErrValidation)
	}
	if err != nil {
		return nil, nil, err
	}

	f, err := us.fileRepo.FetchShareFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if f.ShareID != s.ID {
		return nil, nil, share.ErrNotFound
	}

	if offset < 0 {
		return nil, nil, fmt.Errorf("%w: negative read offset", share.ErrValidation)
	}

	rc, err := us.blobs.ReadRange(ctx, f.BlobID, offset, length)
	if err != nil {
		return nil, nil, err
	}

	return f, rc, nil
}

func (us *UploadService) DeleteFile(ctx context.Context, caller account.Ref, shareID share.ID, fileID domain.ID) error {
	f, s, err := us.access.CheckFile(ctx, caller, fileID)
	if err != nil {
		return err
	}
	if s.ID != shareID {
		return share.ErrNotFound
	}

	if err = us.fileRepo.DeleteShareFile(ctx, f.ID); err != nil {
		return err
	}
	us.deleter.Enqueue(f.BlobID)

	us.mCounter.WithLabelValues("share_files_deleted_total").Inc()

	return nil
}
