package store

import (
	"context"
	"fmt"

	"nestlock/internal/database"
	"nestlock/internal/model"

	"github.com/shopspring/decimal"
)

func CreateSavingGoal(ctx context.Context, db database.DB, g *model.SavingGoal) (*model.SavingGoal, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO saving_goals (user_id, goal_name, target_amount, lock_until)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, current_amount, created_at`,
		g.UserID,
		g.GoalName,
		g.TargetAmount,
		g.LockUntil,
	)
	if err := row.Scan(&g.ID, &g.CurrentAmount, &g.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateSavingGoal: %w", err)
	}
	return g, nil
}

func GetSavingGoalByUserID(ctx context.Context, db database.DB, userID int) (*model.SavingGoal, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, goal_name, target_amount, current_amount, lock_until, created_at
		 FROM saving_goals WHERE user_id = $1`,
		userID,
	)
	g := &model.SavingGoal{}
	if err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.GoalName,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.LockUntil,
		&g.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetSavingGoalByUserID: %w", err)
	}
	return g, nil
}

func GetSavingGoalByID(ctx context.Context, db database.DB, goalID, userID int) (*model.SavingGoal, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, goal_name, target_amount, current_amount, lock_until, created_at
		 FROM saving_goals WHERE id = $1 AND user_id = $2`,
		goalID,
		userID,
	)
	g := &model.SavingGoal{}
	if err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.GoalName,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.LockUntil,
		&g.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetSavingGoalByID: %w", err)
	}
	return g, nil
}

func ListSavingGoalsByUserID(ctx context.Context, db database.DB, userID int) ([]model.SavingGoal, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, goal_name, target_amount, current_amount, lock_until, created_at
		 FROM saving_goals WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListSavingGoalsByUserID: %w", err)
	}
	defer rows.Close()

	goals := []model.SavingGoal{}
	for rows.Next() {
		var g model.SavingGoal
		if err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.GoalName,
			&g.TargetAmount,
			&g.CurrentAmount,
			&g.LockUntil,
			&g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListSavingGoalsByUserID: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSavingGoalsByUserID: %w", err)
	}
	return goals, nil
}

// AddSavingGoalFunds 原子遞增 current_amount 並回傳更新後的目標
func AddSavingGoalFunds(ctx context.Context, db database.DB, userID int, amount decimal.Decimal) (*model.SavingGoal, error) {
	row := db.QueryRow(ctx,
		`UPDATE saving_goals
		 SET current_amount = current_amount + $1
		 WHERE user_id = $2
		 RETURNING id, user_id, goal_name, target_amount, current_amount, lock_until, created_at`,
		amount,
		userID,
	)
	g := &model.SavingGoal{}
	if err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.GoalName,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.LockUntil,
		&g.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("AddSavingGoalFunds: %w", err)
	}
	return g, nil
}

// DeductSavingGoalFunds 有條件扣款：僅在餘額足夠時遞減 current_amount
// 回傳是否實際扣款；餘額不足時為 no-op，餘額永不為負
func DeductSavingGoalFunds(ctx context.Context, db database.DB, userID int, amount decimal.Decimal) (bool, error) {
	tag, err := db.Exec(ctx,
		`UPDATE saving_goals
		 SET current_amount = current_amount - $1
		 WHERE user_id = $2 AND current_amount >= $1`,
		amount,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("DeductSavingGoalFunds: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
