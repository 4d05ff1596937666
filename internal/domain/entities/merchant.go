package entities

import (
	"time"

	"github.com/google/uuid"
)

// Merchant is a tenant of the orchestrator, identified by an API key.
type Merchant struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	APIKeyHash  string    `json:"-"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
