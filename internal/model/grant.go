package model

import (
	"time"

	"github.com/google/uuid"
)

// Grant is one registry row of the reference permission broker: an opaque
// token bound to the absolute folder path it grants access to.
type Grant struct {
	Token      string     `json:"token"`
	Path       string     `json:"path"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt"` // nil = never resolved
}

// NewGrantParams holds parameters for creating a new Grant.
type NewGrantParams struct {
	Path string
}

// NewGrant creates a Grant with a freshly minted opaque token.
func NewGrant(params NewGrantParams) Grant {
	return Grant{
		Token:      uuid.New().String(),
		Path:       params.Path,
		CreatedAt:  time.Now(),
		ResolvedAt: nil,
	}
}
