package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus 提領申請狀態，pending 只會轉移一次到終態
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// ValidDecision 回報 s 是否為合法的審核終態
func ValidDecision(s WithdrawalStatus) bool {
	return s == WithdrawalApproved || s == WithdrawalRejected
}

type WithdrawalRequest struct {
	ID        int              `db:"id" json:"id"`
	UserID    int              `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal  `db:"amount" json:"amount"`
	Status    WithdrawalStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
