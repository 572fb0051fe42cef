package share_file

import (
	"time"

	"github.com/google/uuid"
)

type (
	NewFileRequest struct {
		FileName     string `json:"file_name"`
		MimeType     string `json:"mime_type"`
		DeclaredSize uint64 `json:"declared_size"`
	}

	ShareFile struct {
		ID           uuid.UUID `json:"id"`
		FileName     string    `json:"file_name"`
		MimeType     string    `json:"mime_type"`
		DeclaredSize uint64    `json:"declared_size"`
		RealSize     uint64    `json:"real_size"`
		CreatedAt    time.Time `json:"created_at"`
	}
	ShareFiles []ShareFile

	// UploadProgress acknowledges an AddFileData call with the file's
	// authoritative size, the client's resume point.
	UploadProgress struct {
		RealSize uint64 `json:"real_size"`
	}
)
