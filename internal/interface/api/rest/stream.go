package rest

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

// streamFile sends a byte range of a file as the response body.
func streamFile(c *gin.Context, f *sharefile.ShareFile, rc io.ReadCloser, offset uint64, length int64) {
	defer rc.Close()

	size := int64(f.RealSize) - int64(offset)
	if length >= 0 && length < size {
		size = length
	}
	if size < 0 {
		size = 0
	}

	contentType := f.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, size, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", f.FileName),
	})
}
