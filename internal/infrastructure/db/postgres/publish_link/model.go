package publish_link

import (
	"time"

	"github.com/google/uuid"
)

type PublishLink struct {
	ShareID  uuid.UUID
	PublicID string

	Active  bool
	ReuseID bool

	Views       int
	PublishedAt time.Time
}
