package services

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// NewAnonymousTenant issues an ephemeral tenant identifier for an
// unauthenticated session. Records stored under it are unreachable once
// the identifier is lost; that is the intended lifetime.
func NewAnonymousTenant() string {
	return domain.AnonymousTenantPrefix + uuid.New().String()
}
