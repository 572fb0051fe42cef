package ports

import (
	"context"
	"io"

	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

type NewFileRequest struct {
	FileName string
	MimeType string
	// DeclaredSize is the advertised total length, used only for the
	// quota pre-check.
	DeclaredSize uint64
}

type UploadService interface {
	// CreateEmptyFile starts a resumable upload: a blob placeholder and
	// a file record with real size zero.
	CreateEmptyFile(ctx context.Context, caller account.Ref, shareID share.ID, req NewFileRequest) (*sharefile.ShareFile, error)

	// AddFileData applies a chunk-aligned slice of the upload stream at
	// the given byte offset and returns the file's new real size.
	// Replayed chunks are size-neutral; a post-write quota violation
	// deletes the file and reports QuotaExceededError.
	AddFileData(ctx context.Context, caller account.Ref, shareID share.ID, fileID sharefile.ID, offset, declaredSize uint64, data io.Reader) (uint64, error)

	// LoadFile streams a byte range of a file through either reference
	// kind; the caller must close the reader.
	LoadFile(ctx context.Context, ref share.Ref, caller account.Ref, password string, fileID sharefile.ID, offset, length int64) (*sharefile.ShareFile, io.ReadCloser, error)

	DeleteFile(ctx context.Context, caller account.Ref, shareID share.ID, fileID sharefile.ID) error
}
