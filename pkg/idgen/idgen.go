// Package idgen generates the opaque ids used across the HTTP boundary and
// for correlation ids, centralizing the uuid.New() call the teacher's
// middleware/request_id.go inlines.
package idgen

import "github.com/google/uuid"

// New returns a fresh v4 UUID string.
func New() string {
	return uuid.New().String()
}

// NewUUID returns a fresh v4 uuid.UUID.
func NewUUID() uuid.UUID {
	return uuid.New()
}
