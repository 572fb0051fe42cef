package share

import (
	"time"

	"github.com/google/uuid"

	sfdto "github.com/Xeyame/sharry/internal/interface/api/rest/dto/share_file"
)

type (
	Share struct {
		ID              uuid.UUID  `json:"id"`
		AliasID         *uuid.UUID `json:"alias_id,omitempty"`
		Name            string     `json:"name"`
		Description     string     `json:"description"`
		ValiditySeconds int64      `json:"validity_seconds"`
		MaxViews        int        `json:"max_views"`
		HasPassword     bool       `json:"has_password"`
		CreatedAt       time.Time  `json:"created_at"`
	}
	Shares []Share

	PublishLink struct {
		PublicID    string    `json:"public_id"`
		Active      bool      `json:"active"`
		ReuseID     bool      `json:"reuse_id"`
		Views       int       `json:"views"`
		PublishedAt time.Time `json:"published_at"`
	}

	Details struct {
		Share
		Files sfdto.ShareFiles `json:"files"`
		Link  *PublishLink     `json:"publish_link,omitempty"`
	}

	ResponseData struct {
		Data Shares `json:"data"`
	}
)
