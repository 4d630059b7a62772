package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"nestlock/internal/database"
	"nestlock/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeGoalRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==7 → Get / AddSavingGoalFunds (RETURNING 全欄位)
// 2) len(dest)==3 → CreateSavingGoal (id, current_amount, created_at)
type fakeGoalRow struct {
	scanErr error
	goal    *model.SavingGoal
}

func (r *fakeGoalRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	g := r.goal
	switch len(dest) {
	case 7:
		*dest[0].(*int) = g.ID
		*dest[1].(*int) = g.UserID
		*dest[2].(*string) = g.GoalName
		*dest[3].(*decimal.Decimal) = g.TargetAmount
		*dest[4].(*decimal.Decimal) = g.CurrentAmount
		*dest[5].(*time.Time) = g.LockUntil
		*dest[6].(*time.Time) = g.CreatedAt
	case 3:
		*dest[0].(*int) = g.ID
		*dest[1].(*decimal.Decimal) = g.CurrentAmount
		*dest[2].(*time.Time) = g.CreatedAt
	default:
		panic("fakeGoalRow.Scan: unexpected dest count")
	}
	return nil
}

// fakeGoalRows 實作 pgx.Rows，逐筆回傳 goals
type fakeGoalRows struct {
	goals   []model.SavingGoal
	idx     int
	scanErr error
}

func (r *fakeGoalRows) Close()                                       {}
func (r *fakeGoalRows) Err() error                                   { return nil }
func (r *fakeGoalRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeGoalRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeGoalRows) Next() bool                                   { return r.idx < len(r.goals) }
func (r *fakeGoalRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeGoalRows) RawValues() [][]byte                          { return nil }
func (r *fakeGoalRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeGoalRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := &fakeGoalRow{goal: &r.goals[r.idx]}
	r.idx++
	return row.Scan(dest...)
}

/* ---------- 完整測試 ---------- */

func TestSavingGoalStore(t *testing.T) {
	now := time.Now().UTC()
	lock := now.Add(30 * 24 * time.Hour)
	sample := &model.SavingGoal{
		ID:            3,
		UserID:        7,
		GoalName:      "house deposit",
		TargetAmount:  decimal.NewFromInt(900000),
		CurrentAmount: decimal.NewFromInt(350000),
		LockUntil:     lock,
		CreatedAt:     now,
	}

	t.Run("CreateSavingGoal success", func(t *testing.T) {
		g := &model.SavingGoal{UserID: 7, GoalName: "house deposit", TargetAmount: decimal.NewFromInt(900000), LockUntil: lock}
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				created := *g
				created.ID = 3
				created.CurrentAmount = decimal.Zero
				created.CreatedAt = now
				return &fakeGoalRow{goal: &created}
			},
		}
		created, err := CreateSavingGoal(context.Background(), db, g)
		require.NoError(t, err)
		require.Equal(t, 3, created.ID)
		require.True(t, created.CurrentAmount.IsZero())
	})

	t.Run("CreateSavingGoal duplicate", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeGoalRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		}
		created, err := CreateSavingGoal(context.Background(), db, &model.SavingGoal{})
		require.Error(t, err)
		require.True(t, IsUniqueViolation(err))
		require.Nil(t, created)
	})

	t.Run("GetSavingGoalByUserID success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, 7, args[0])
				return &fakeGoalRow{goal: sample}
			},
		}
		g, err := GetSavingGoalByUserID(context.Background(), db, 7)
		require.NoError(t, err)
		require.Equal(t, "house deposit", g.GoalName)
		require.True(t, g.CurrentAmount.Equal(decimal.NewFromInt(350000)))
	})

	t.Run("GetSavingGoalByUserID not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeGoalRow{scanErr: pgx.ErrNoRows}
			},
		}
		g, err := GetSavingGoalByUserID(context.Background(), db, 8)
		require.ErrorIs(t, err, pgx.ErrNoRows)
		require.Nil(t, g)
	})

	t.Run("GetSavingGoalByID scopes to owner", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, 3, args[0])
				require.Equal(t, 7, args[1])
				return &fakeGoalRow{goal: sample}
			},
		}
		g, err := GetSavingGoalByID(context.Background(), db, 3, 7)
		require.NoError(t, err)
		require.Equal(t, 3, g.ID)
	})

	t.Run("ListSavingGoalsByUserID", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeGoalRows{goals: []model.SavingGoal{*sample}}, nil
			},
		}
		goals, err := ListSavingGoalsByUserID(context.Background(), db, 7)
		require.NoError(t, err)
		require.Len(t, goals, 1)
		require.Equal(t, 3, goals[0].ID)
	})

	t.Run("ListSavingGoalsByUserID query error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return nil, errors.New("query")
			},
		}
		goals, err := ListSavingGoalsByUserID(context.Background(), db, 7)
		require.Error(t, err)
		require.Nil(t, goals)
	})

	t.Run("AddSavingGoalFunds increments", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				amount := args[0].(decimal.Decimal)
				require.True(t, amount.Equal(decimal.NewFromInt(50000)))
				updated := *sample
				updated.CurrentAmount = sample.CurrentAmount.Add(amount)
				return &fakeGoalRow{goal: &updated}
			},
		}
		g, err := AddSavingGoalFunds(context.Background(), db, 7, decimal.NewFromInt(50000))
		require.NoError(t, err)
		require.True(t, g.CurrentAmount.Equal(decimal.NewFromInt(400000)))
	})

	t.Run("AddSavingGoalFunds no goal", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeGoalRow{scanErr: pgx.ErrNoRows}
			},
		}
		g, err := AddSavingGoalFunds(context.Background(), db, 8, decimal.NewFromInt(1))
		require.ErrorIs(t, err, pgx.ErrNoRows)
		require.Nil(t, g)
	})

	t.Run("DeductSavingGoalFunds deducts when balance suffices", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				require.True(t, args[0].(decimal.Decimal).Equal(decimal.NewFromInt(100000)))
				require.Equal(t, 7, args[1])
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		deducted, err := DeductSavingGoalFunds(context.Background(), db, 7, decimal.NewFromInt(100000))
		require.NoError(t, err)
		require.True(t, deducted)
	})

	t.Run("DeductSavingGoalFunds no-op when balance short", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 0"), nil
			},
		}
		deducted, err := DeductSavingGoalFunds(context.Background(), db, 7, decimal.NewFromInt(999999))
		require.NoError(t, err)
		require.False(t, deducted)
	})

	t.Run("DeductSavingGoalFunds exec error", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("exec")
			},
		}
		deducted, err := DeductSavingGoalFunds(context.Background(), db, 7, decimal.NewFromInt(1))
		require.Error(t, err)
		require.False(t, deducted)
	})
}
