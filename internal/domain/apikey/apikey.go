package apikey

import "errors"

// Key is an opaque bearer credential for the public parcel API. Usage fields
// mutate on every authenticated call, not just writes.
type Key struct {
	ID          string  `json:"id"`
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	LastUsed    *string `json:"lastUsed"`
	UsageCount  int     `json:"usageCount"`
	Active      bool    `json:"active"`
	RevokedAt   *string `json:"revokedAt,omitempty"`
}

var (
	ErrNotFound = errors.New("api key not found")
	ErrInvalid  = errors.New("invalid or inactive api key")
)

type CreateKeyRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=80"`
	Description string `json:"description" binding:"omitempty,max=500"`
}
