// Package pagination holds the limit/offset parsing shared by every list
// endpoint under /v1.
package pagination

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Parse reads limit/offset query params, clamping limit to (0, MaxLimit].
func Parse(limitParam, offsetParam string) (limit, offset int) {
	limit = DefaultLimit
	if v, err := strconv.Atoi(limitParam); err == nil && v > 0 {
		limit = v
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if v, err := strconv.Atoi(offsetParam); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// Meta is the pagination block embedded in list responses.
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
