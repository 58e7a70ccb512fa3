package cache

import (
	"strings"

	"github.com/google/uuid"
)

// Key builds cache keys of the form
//
//	<resource>:<scope>:<company_id>[:<discriminator>...]
//
// Every key carries the company ID so cross-tenant reads are impossible by
// construction and a whole tenant slice can be dropped by prefix.
type Key struct {
	resource string
	scope    string
}

// NewKey creates a key builder for a resource and scope,
// e.g. NewKey("contacts", "list") or NewKey("dashboard", "stats").
func NewKey(resource, scope string) Key {
	return Key{resource: resource, scope: scope}
}

// For renders the full key for a company with optional discriminators
// (page, filters hash, entity id).
func (k Key) For(companyID uuid.UUID, discriminators ...string) string {
	parts := make([]string, 0, 3+len(discriminators))
	parts = append(parts, k.resource, k.scope, companyID.String())
	parts = append(parts, discriminators...)
	return strings.Join(parts, ":")
}

// Prefix renders the invalidation prefix covering every key of this
// resource and scope for the company.
func (k Key) Prefix(companyID uuid.UUID) string {
	return k.resource + ":" + k.scope + ":" + companyID.String()
}
