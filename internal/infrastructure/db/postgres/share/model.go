package share

import (
	"time"

	"github.com/google/uuid"
)

type (
	Share struct {
		UUID      uuid.UUID
		AccountID uuid.UUID
		AliasID   *uuid.UUID

		Name         string
		Description  string
		ValiditySecs int64
		MaxViews     int
		PasswordHash *string

		CreatedAt time.Time
	}
	Shares []*Share
)
