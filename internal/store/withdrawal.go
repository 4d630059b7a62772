package store

import (
	"context"
	"fmt"

	"nestlock/internal/database"
	"nestlock/internal/model"
)

func CreateWithdrawal(ctx context.Context, db database.DB, w *model.WithdrawalRequest) (*model.WithdrawalRequest, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO withdrawal_requests (user_id, amount)
		 VALUES ($1, $2)
		 RETURNING id, status, created_at`,
		w.UserID,
		w.Amount,
	)
	if err := row.Scan(&w.ID, &w.Status, &w.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateWithdrawal: %w", err)
	}
	return w, nil
}

func GetWithdrawalByID(ctx context.Context, db database.DB, withdrawalID int) (*model.WithdrawalRequest, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, amount, status, created_at
		 FROM withdrawal_requests WHERE id = $1`,
		withdrawalID,
	)
	w := &model.WithdrawalRequest{}
	if err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Amount,
		&w.Status,
		&w.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetWithdrawalByID: %w", err)
	}
	return w, nil
}

func ListWithdrawalsByUserID(ctx context.Context, db database.DB, userID int) ([]model.WithdrawalRequest, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, amount, status, created_at
		 FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListWithdrawalsByUserID: %w", err)
	}
	defer rows.Close()
	return scanWithdrawals(rows)
}

// ListPendingWithdrawalsForCoSigner 列出所有指定此 email 為 co-signer
// 的使用者名下待審提領；一位 co-signer 可能守護多位儲蓄者
// 儲存的 co_signer_email 可能未正規化，比對時一併處理
func ListPendingWithdrawalsForCoSigner(ctx context.Context, db database.DB, email string) ([]model.WithdrawalRequest, error) {
	rows, err := db.Query(ctx,
		`SELECT w.id, w.user_id, w.amount, w.status, w.created_at
		 FROM withdrawal_requests w
		 JOIN users u ON u.id = w.user_id
		 WHERE LOWER(TRIM(u.co_signer_email)) = $1 AND w.status = 'pending'
		 ORDER BY w.created_at`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("ListPendingWithdrawalsForCoSigner: %w", err)
	}
	defer rows.Close()
	return scanWithdrawals(rows)
}

// ResolveWithdrawal 以單一 CAS 敘述將 pending 轉為終態
// 回傳是否成功轉移；併發審核時僅一方觀察到 pending 並勝出
func ResolveWithdrawal(ctx context.Context, db database.DB, withdrawalID int, status model.WithdrawalStatus) (bool, error) {
	tag, err := db.Exec(ctx,
		`UPDATE withdrawal_requests
		 SET status = $1
		 WHERE id = $2 AND status = 'pending'`,
		status,
		withdrawalID,
	)
	if err != nil {
		return false, fmt.Errorf("ResolveWithdrawal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanWithdrawals(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]model.WithdrawalRequest, error) {
	withdrawals := []model.WithdrawalRequest{}
	for rows.Next() {
		var w model.WithdrawalRequest
		if err := rows.Scan(
			&w.ID,
			&w.UserID,
			&w.Amount,
			&w.Status,
			&w.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanWithdrawals: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanWithdrawals: %w", err)
	}
	return withdrawals, nil
}
