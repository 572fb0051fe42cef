package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	shareDomain "github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/infrastructure/jwt"
	"github.com/Xeyame/sharry/internal/interface/api/rest/dto/share"
	"github.com/Xeyame/sharry/internal/interface/api/rest/middleware"
	"github.com/Xeyame/sharry/internal/interface/api/rest/validator"
)

type ShareController struct {
	shareService   ports.ShareService
	publishService ports.PublishService
	logger         *zap.Logger
}

func NewShareController(
	r *gin.Engine,
	shareService ports.ShareService,
	publishService ports.PublishService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *ShareController {
	sc := &ShareController{
		shareService:   shareService,
		publishService: publishService,
		logger:         logger,
	}

	auth := middleware.AuthMiddleware(jwtService)

	r.POST(RouteShares, auth, sc.CreateShareHandler)
	r.GET(RouteShares, auth, sc.GetSharesHandler)
	r.GET(RouteShare, auth, sc.GetShareHandler)
	r.PATCH(RouteShareName, auth, sc.SetNameHandler)
	r.PATCH(RouteShareDescription, auth, sc.SetDescriptionHandler)
	r.PATCH(RouteShareValidity, auth, sc.SetValidityHandler)
	r.PATCH(RouteShareMaxViews, auth, sc.SetMaxViewsHandler)
	r.PATCH(RouteSharePassword, auth, sc.SetPasswordHandler)
	r.POST(RouteSharePublish, auth, sc.PublishHandler)
	r.POST(RouteShareUnpublish, auth, sc.UnpublishHandler)
	r.DELETE(RouteShare, auth, sc.DeleteShareHandler)

	return sc
}

func (sc *ShareController) CreateShareHandler(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req share.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateCreateShare(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	s, err := sc.shareService.CreateShare(c.Request.Context(), caller, share.ToCreateShareRequest(req))
	if err != nil {
		respondError(c, sc.logger, "CreateShare()", err)
		return
	}

	c.JSON(http.StatusCreated, share.ToResponseShare(*s))
}

func (sc *ShareController) GetSharesHandler(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	page, err := validator.ValidatePage(c.Query("page"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return
	}

	shares, err := sc.shareService.FindShares(c.Request.Context(), caller, page)
	if err != nil {
		respondError(c, sc.logger, "FindShares()", err)
		return
	}

	c.JSON(http.StatusOK, share.ResponseData{
		Data: share.ToResponseShares(shares),
	})
}

func (sc *ShareController) GetShareHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	d, err := sc.shareService.ShareDetails(c.Request.Context(), shareDomain.PrivateRef(shareID), caller, "")
	if err != nil {
		respondError(c, sc.logger, "ShareDetails()", err)
		return
	}

	c.JSON(http.StatusOK, share.ToResponseDetails(*d))
}

func (sc *ShareController) SetNameHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	var req share.SetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sc.shareService.SetName(c.Request.Context(), caller, shareID, req.Name); err != nil {
		respondError(c, sc.logger, "SetName()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) SetDescriptionHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	var req share.SetDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sc.shareService.SetDescription(c.Request.Context(), caller, shareID, req.Description); err != nil {
		respondError(c, sc.logger, "SetDescription()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) SetValidityHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	var req share.SetValidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	validity := time.Duration(req.ValiditySeconds) * time.Second
	if err := sc.shareService.SetValidity(c.Request.Context(), caller, shareID, validity); err != nil {
		respondError(c, sc.logger, "SetValidity()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) SetMaxViewsHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	var req share.SetMaxViewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sc.shareService.SetMaxViews(c.Request.Context(), caller, shareID, req.MaxViews); err != nil {
		respondError(c, sc.logger, "SetMaxViews()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) SetPasswordHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	var req share.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sc.shareService.SetPassword(c.Request.Context(), caller, shareID, req.Password); err != nil {
		respondError(c, sc.logger, "SetPassword()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) PublishHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	// an empty body means a fresh public id
	var req share.PublishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	link, err := sc.publishService.Publish(c.Request.Context(), caller, shareID, req.ReuseID)
	if err != nil {
		respondError(c, sc.logger, "Publish()", err)
		return
	}

	c.JSON(http.StatusOK, share.ToResponseLink(*link))
}

func (sc *ShareController) UnpublishHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	if err := sc.publishService.Unpublish(c.Request.Context(), caller, shareID); err != nil {
		respondError(c, sc.logger, "Unpublish()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) DeleteShareHandler(c *gin.Context) {
	caller, shareID, ok := sc.callerAndShare(c)
	if !ok {
		return
	}

	if err := sc.shareService.DeleteShare(c.Request.Context(), caller, shareID); err != nil {
		respondError(c, sc.logger, "DeleteShare()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) callerAndShare(c *gin.Context) (account.Ref, shareDomain.ID, bool) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return account.Ref{}, shareDomain.ID{}, false
	}

	ok, shareID := validator.IsUUID(c.Param("share_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "share_id must be a valid UUID"},
		)
		return account.Ref{}, shareDomain.ID{}, false
	}

	return caller, shareID, true
}
