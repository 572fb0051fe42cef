package share

type (
	CreateRequest struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		ValiditySeconds int64  `json:"validity_seconds"`
		MaxViews        int    `json:"max_views"`
		Password        string `json:"password"`
	}

	SetNameRequest struct {
		Name string `json:"name"`
	}
	SetDescriptionRequest struct {
		Description string `json:"description"`
	}
	SetValidityRequest struct {
		ValiditySeconds int64 `json:"validity_seconds"`
	}
	SetMaxViewsRequest struct {
		MaxViews int `json:"max_views"`
	}
	// SetPasswordRequest clears the password when the field is null or
	// absent.
	SetPasswordRequest struct {
		Password *string `json:"password"`
	}

	PublishRequest struct {
		ReuseID bool `json:"reuse_id"`
	}
)
