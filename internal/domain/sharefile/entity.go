package sharefile

import (
	"time"

	"github.com/google/uuid"

	"github.com/Xeyame/sharry/internal/domain/blob"
	"github.com/Xeyame/sharry/internal/domain/share"
)

type (
	ID = uuid.UUID

	ShareFile struct {
		ID      ID
		ShareID share.ID
		BlobID  blob.ID

		FileName string
		MimeType string

		// DeclaredSize is the length advertised when the file was
		// created; a pre-check hint only, never authoritative.
		DeclaredSize uint64
		// RealSize is the number of bytes actually persisted so far.
		// Monotonically non-decreasing.
		RealSize uint64

		CreatedAt time.Time
	}
	ShareFiles []*ShareFile
)
