package services

import (
	"context"

	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

// Quota enforces the per-share storage bound. The check is
// advisory-optimistic: it runs before a costly write and is repeated
// after the write completes, because concurrent uploads to the same
// share can each pass the pre-check and jointly overrun the maximum.
// The bound is therefore soft: aggregate size can durably exceed the
// maximum by at most one in-flight write's worth.
type Quota struct {
	fileRepo sharefile.Repository
	maxSize  uint64
}

func NewQuota(fileRepo sharefile.Repository, maxSize uint64) *Quota {
	return &Quota{fileRepo: fileRepo, maxSize: maxSize}
}

func (q *Quota) MaxSize() uint64 { return q.maxSize }

// CheckSize recomputes the share's aggregate real size and accepts the
// candidate only if it fits the remaining room, returning the room
// left before the candidate is applied. Rejections carry the
// configured maximum.
func (q *Quota) CheckSize(ctx context.Context, shareID share.ID, candidate uint64) (uint64, error) {
	current, err := q.fileRepo.SumRealSize(ctx, shareID)
	if err != nil {
		return 0, err
	}

	if current > q.maxSize || candidate > q.maxSize-current {
		return 0, &share.QuotaExceededError{MaxSize: q.maxSize}
	}

	return q.maxSize - current, nil
}

// Exceeded is the post-write re-check: it reports whether the share's
// live aggregate size has moved past the maximum.
func (q *Quota) Exceeded(ctx context.Context, shareID share.ID) (bool, error) {
	current, err := q.fileRepo.SumRealSize(ctx, shareID)
	if err != nil {
		return false, err
	}
	return current > q.maxSize, nil
}
