package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	shareDomain "github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
	"github.com/Xeyame/sharry/internal/infrastructure/jwt"
	"github.com/Xeyame/sharry/internal/interface/api/rest/dto/share"
	"github.com/Xeyame/sharry/internal/interface/api/rest/dto/share_file"
	"github.com/Xeyame/sharry/internal/interface/api/rest/middleware"
	"github.com/Xeyame/sharry/internal/interface/api/rest/validator"
)

type UploadController struct {
	uploadService ports.UploadService
	logger        *zap.Logger
}

func NewUploadController(
	r *gin.Engine,
	uploadService ports.UploadService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UploadController {
	uc := &UploadController{
		uploadService: uploadService,
		logger:        logger,
	}

	auth := middleware.AuthMiddleware(jwtService)

	r.POST(RouteShareFiles, auth, uc.CreateFileHandler)
	r.PUT(RouteShareFileData, auth, uc.AddFileDataHandler)
	r.GET(RouteShareFileData, auth, uc.GetFileDataHandler)
	r.DELETE(RouteShareFile, auth, uc.DeleteFileHandler)

	return uc
}

func (uc *UploadController) CreateFileHandler(c *gin.Context) {
	caller, shareID, ok := uc.callerShareFile(c, false)
	if !ok {
		return
	}

	var req share_file.NewFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateNewFile(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	f, err := uc.uploadService.CreateEmptyFile(c.Request.Context(), caller.ref, shareID, share.ToNewFileRequest(req))
	if err != nil {
		respondError(c, uc.logger, "CreateEmptyFile()", err)
		return
	}

	c.JSON(http.StatusCreated, share_file.ToResponseShareFile(*f))
}

// AddFileDataHandler receives a chunk-aligned slice of the upload as a
// raw request body. The offset query selects the resume point and the
// Content-Length serves as the quota pre-check hint.
func (uc *UploadController) AddFileDataHandler(c *gin.Context) {
	caller, shareID, ok := uc.callerShareFile(c, true)
	if !ok {
		return
	}

	offset, err := validator.ParseOffset(c.Query("offset"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var declared uint64
	if c.Request.ContentLength > 0 {
		declared = uint64(c.Request.ContentLength)
	}

	realSize, err := uc.uploadService.AddFileData(
		c.Request.Context(), caller.ref, shareID, caller.fileID, offset, declared, c.Request.Body,
	)
	if err != nil {
		respondError(c, uc.logger, "AddFileData()", err)
		return
	}

	c.JSON(http.StatusOK, share_file.UploadProgress{RealSize: realSize})
}

func (uc *UploadController) GetFileDataHandler(c *gin.Context) {
	caller, shareID, ok := uc.callerShareFile(c, true)
	if !ok {
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

	f, rc, err := uc.uploadService.LoadFile(
		c.Request.Context(), shareDomain.PrivateRef(shareID), caller.ref, "", caller.fileID, int64(offset), length,
	)
	if err != nil {
		respondError(c, uc.logger, "LoadFile()", err)
		return
	}

	streamFile(c, f, rc, offset, length)
}

func (uc *UploadController) DeleteFileHandler(c *gin.Context) {
	caller, shareID, ok := uc.callerShareFile(c, true)
	if !ok {
		return
	}

	if err := uc.uploadService.DeleteFile(c.Request.Context(), caller.ref, shareID, caller.fileID); err != nil {
		respondError(c, uc.logger, "DeleteFile()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

type uploadCaller struct {
	ref    account.Ref
	fileID sharefile.ID
}

func (uc *UploadController) callerShareFile(c *gin.Context, wantFile bool) (uploadCaller, shareDomain.ID, bool) {
	ref, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return uploadCaller{}, shareDomain.ID{}, false
	}

	ok, shareID := validator.IsUUID(c.Param("share_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "share_id must be a valid UUID"},
		)
		return uploadCaller{}, shareDomain.ID{}, false
	}

	out := uploadCaller{ref: ref}
	if wantFile {
		ok, fileID := validator.IsUUID(c.Param("file_id"))
		if !ok {
			c.JSON(
				http.StatusBadRequest,
				gin.H{"error": "file_id must be a valid UUID"},
			)
			return uploadCaller{}, shareDomain.ID{}, false
		}
		out.fileID = fileID
	}

	return out, shareID, true
}
