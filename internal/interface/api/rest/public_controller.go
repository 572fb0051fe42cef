package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	shareDomain "github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/interface/api/rest/dto/share"
	"github.com/Xeyame/sharry/internal/interface/api/rest/validator"
)

// HeaderSharePassword carries the plaintext password of a protected
// published share. A header rather than a query parameter keeps it out
// of access logs.
const HeaderSharePassword = "X-Share-Password"

// PublicController is the anonymous surface: no auth middleware, all
// resolution goes through active publish links.
type PublicController struct {
	shareService  ports.ShareService
	uploadService ports.UploadService
	logger        *zap.Logger
}

func NewPublicController(
	r *gin.Engine,
	shareService ports.ShareService,
	uploadService ports.UploadService,
	logger *zap.Logger,
) *PublicController {
	pc := &PublicController{
		shareService:  shareService,
		uploadService: uploadService,
		logger:        logger,
	}

	r.GET(RoutePublicShare, pc.GetPublicShareHandler)
	r.GET(RoutePublicFileData, pc.GetPublicFileDataHandler)

	return pc
}

func (pc *PublicController) GetPublicShareHandler(c *gin.Context) {
	publicID := c.Param("public_id")
	password := c.GetHeader(HeaderSharePassword)

	d, err := pc.shareService.ShareDetails(
		c.Request.Context(), shareDomain.PublicRef(publicID), account.Ref{}, password,
	)
	if err != nil {
		respondError(c, pc.logger, "ShareDetails()", err)
		return
	}

	c.JSON(http.StatusOK, share.ToResponseDetails(*d))
}

func (pc *PublicController) GetPublicFileDataHandler(c *gin.Context) {
	publicID := c.Param("public_id")
	password := c.GetHeader(HeaderSharePassword)

	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	offset, err := validator.ParseOffset(c.Query("offset"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	length, err := validator.ParseLength(c.Query("length"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, rc, err := pc.uploadService.LoadFile(
		c.Request.Context(), shareDomain.PublicRef(publicID), account.Ref{}, password, fileID, int64(offset), length,
	)
	if err != nil {
		respondError(c, pc.logger, "LoadFile()", err)
		return
	}

	streamFile(c, f, rc, offset, length)
}
