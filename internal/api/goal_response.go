package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// swagger:model api.GoalResponse
type GoalResponse struct {
	ID            int             `json:"id" example:"1"`
	UserID        int             `json:"user_id" example:"1"`
	GoalName      string          `json:"goal_name" example:"house deposit"`
	TargetAmount  decimal.Decimal `json:"target_amount" example:"900000"`
	CurrentAmount decimal.Decimal `json:"current_amount" example:"350000"`
	LockUntil     time.Time       `json:"lock_until" example:"2026-03-01T00:00:00Z"`
	CreatedAt     time.Time       `json:"created_at"`
}
