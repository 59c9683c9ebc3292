package domain

import "strings"

// AnonymousTenantPrefix marks ephemeral tenant identifiers issued to
// unauthenticated sessions.
const AnonymousTenantPrefix = "anon_"

// ValidTenantID reports whether id can scope records and searches.
// Tenant IDs are opaque strings; the only requirement is that they are
// non-empty after trimming, since an empty filter value would silently
// match nothing.
func ValidTenantID(id string) bool {
	return strings.TrimSpace(id) != ""
}

// IsAnonymousTenant reports whether id was issued to an anonymous session.
func IsAnonymousTenant(id string) bool {
	return strings.HasPrefix(id, AnonymousTenantPrefix)
}
