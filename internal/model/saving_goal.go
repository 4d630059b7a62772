package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SavingGoal struct {
	ID            int             `db:"id" json:"id"`
	UserID        int             `db:"user_id" json:"user_id"`
	GoalName      string          `db:"goal_name" json:"goal_name"`
	TargetAmount  decimal.Decimal `db:"target_amount" json:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount" json:"current_amount"`
	LockUntil     time.Time       `db:"lock_until" json:"lock_until"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Locked 回報鎖定期是否尚未屆滿
func (g *SavingGoal) Locked(now time.Time) bool {
	return now.Before(g.LockUntil)
}
