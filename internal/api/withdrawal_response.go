package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// swagger:model api.WithdrawalResponse
type WithdrawalResponse struct {
	ID        int             `json:"id" example:"1"`
	UserID    int             `json:"user_id" example:"1"`
	Amount    decimal.Decimal `json:"amount" example:"100000"`
	Status    string          `json:"status" example:"pending"`
	CreatedAt time.Time       `json:"created_at"`
}
