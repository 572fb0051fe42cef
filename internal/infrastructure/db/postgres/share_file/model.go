package share_file

import (
	"time"

	"github.com/google/uuid"
)

type (
	ShareFile struct {
		UUID    uuid.UUID
		ShareID uuid.UUID
		BlobID  string

		FileName     string
		MimeType     string
		DeclaredSize uint64
		RealSize     uint64

		CreatedAt time.Time
	}
	ShareFiles []*ShareFile
)
