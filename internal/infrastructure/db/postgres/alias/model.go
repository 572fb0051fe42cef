package alias

import (
	"time"

	"github.com/google/uuid"
)

type Alias struct {
	UUID      uuid.UUID
	AccountID uuid.UUID

	Name         string
	ValiditySecs int64

	CreatedAt time.Time
}
