package api

import "time"

// swagger:model api.UserResponse
type UserResponse struct {
	ID            int       `json:"id" example:"1"`
	Name          string    `json:"name" example:"Alice"`
	Email         string    `json:"email" example:"alice@example.com"`
	CoSignerEmail string    `json:"co_signer_email" example:"co@example.com"`
	CreatedAt     time.Time `json:"created_at" example:"2025-05-01T15:04:05Z07:00"`
}
