package ident

import (
	"crypto/rand"
	"encoding/base64"
)

// publicIDBytes gives 96 bits of randomness, enough that minted public
// identifiers are collision-resistant without coordination.
const publicIDBytes = 12

// NewPublicID mints an URL-safe random identifier for publish links.
func NewPublicID() string {
	b := make([]byte, publicIDBytes)
	// rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
