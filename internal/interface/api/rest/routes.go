package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// owner surface
	RouteShares           = RouteApiV1 + "/shares"
	RouteShare            = RouteShares + "/:share_id"
	RouteShareName        = RouteShare + "/name"
	RouteShareDescription = RouteShare + "/description"
	RouteShareValidity    = RouteShare + "/validity"
	RouteShareMaxViews    = RouteShare + "/maxviews"
	RouteSharePassword    = RouteShare + "/password"
	RouteSharePublish     = RouteShare + "/publish"
	RouteShareUnpublish   = RouteShare + "/unpublish"
	RouteShareFiles       = RouteShare + "/files"
	RouteShareFile        = RouteShareFiles + "/:file_id"
	RouteShareFileData    = RouteShareFile + "/data"

	// anonymous surface
	RoutePublicShare    = RouteApiV1 + "/public/:public_id"
	RoutePublicFileData = RoutePublicShare + "/files/:file_id/data"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
