package saving

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nestlock/internal/database"
	"nestlock/internal/middleware"
	"nestlock/internal/model"
	"nestlock/internal/service"
	"nestlock/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

func newFormCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 1, Email: "u@example.com"})
	return ctx, rec
}

func restore() {
	createSavingGoal = store.CreateSavingGoal
	getSavingGoalByUserID = store.GetSavingGoalByUserID
	getSavingGoalByID = store.GetSavingGoalByID
	listSavingGoals = store.ListSavingGoalsByUserID
	addSavingGoalFunds = store.AddSavingGoalFunds
}

func TestCreateGoalHandler(t *testing.T) {
	e := echo.New()
	lockUntil := time.Now().Add(90 * 24 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("missing claims", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, CreateGoalHandler(nil)(e.NewContext(req, rec)))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-positive target", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newFormCtx(e, "goal_name=house&target_amount=-5&lock_until="+lockUntil)
		require.NoError(t, CreateGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "target amount must be a positive number")
	})

	t.Run("bad lock_until", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newFormCtx(e, "goal_name=house&target_amount=1000&lock_until=tomorrow")
		require.NoError(t, CreateGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "RFC3339")
	})

	t.Run("goal already exists", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getSavingGoalByUserID = func(context.Context, database.DB, int) (*model.SavingGoal, error) {
			return &model.SavingGoal{ID: 9}, nil
		}
		ctx, rec := newFormCtx(e, "goal_name=house&target_amount=1000&lock_until="+lockUntil)
		require.NoError(t, CreateGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "saving goal already exists")
	})

	t.Run("concurrent create loses on unique index", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getSavingGoalByUserID = func(context.Context, database.DB, int) (*model.SavingGoal, error) {
			return nil, pgx.ErrNoRows
		}
		createSavingGoal = func(context.Context, database.DB, *model.SavingGoal) (*model.SavingGoal, error) {
			return nil, fmt.Errorf("CreateSavingGoal: %w", &pgconn.PgError{Code: "23505"})
		}
		ctx, rec := newFormCtx(e, "goal_name=house&target_amount=1000&lock_until="+lockUntil)
		require.NoError(t, CreateGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "saving goal already exists")
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getSavingGoalByUserID = func(context.Context, database.DB, int) (*model.SavingGoal, error) {
			return nil, pgx.ErrNoRows
		}
		createSavingGoal = func(_ context.Context, _ database.DB, g *model.SavingGoal) (*model.SavingGoal, error) {
			require.Equal(t, 1, g.UserID)
			require.Equal(t, "house", g.GoalName)
			require.True(t, g.TargetAmount.Equal(decimal.NewFromInt(500000)))
			g.ID = 7
			return g, nil
		}
		ctx, rec := newFormCtx(e, "goal_name=house&target_amount=500000&lock_until="+lockUntil)
		require.NoError(t, CreateGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), "\"goal_name\":\"house\"")
	})
}

func TestAddFundsHandler(t *testing.T) {
	e := echo.New()

	t.Run("non-positive amount", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newFormCtx(e, "amount=0")
		require.NoError(t, AddFundsHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "amount must be a positive number")
	})

	t.Run("non-numeric amount", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newFormCtx(e, "amount=abc")
		require.NoError(t, AddFundsHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no goal", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		addSavingGoalFunds = func(context.Context, database.DB, int, decimal.Decimal) (*model.SavingGoal, error) {
			return nil, fmt.Errorf("AddSavingGoalFunds: %w", pgx.ErrNoRows)
		}
		ctx, rec := newFormCtx(e, "amount=100")
		require.NoError(t, AddFundsHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "saving goal not found")
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		addSavingGoalFunds = func(_ context.Context, _ database.DB, userID int, amount decimal.Decimal) (*model.SavingGoal, error) {
			require.Equal(t, 1, userID)
			require.True(t, amount.Equal(decimal.NewFromInt(100)))
			return &model.SavingGoal{ID: 7, UserID: 1, CurrentAmount: decimal.NewFromInt(350100)}, nil
		}
		ctx, rec := newFormCtx(e, "amount=100")
		require.NoError(t, AddFundsHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "350100")
	})
}

func TestListGoalsHandler(t *testing.T) {
	e := echo.New()

	t.Run("empty list", func(t *testing.T) {
		t.Cleanup(restore)
		listSavingGoals = func(context.Context, database.DB, int) ([]model.SavingGoal, error) {
			return nil, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 1})
		require.NoError(t, ListGoalsHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listSavingGoals = func(context.Context, database.DB, int) ([]model.SavingGoal, error) {
			return nil, errors.New("boom")
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 1})
		require.NoError(t, ListGoalsHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetGoalHandler(t *testing.T) {
	e := echo.New()

	newGetCtx := func(id string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("id")
		ctx.SetParamValues(id)
		ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 1})
		return ctx, rec
	}

	t.Run("bad id", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newGetCtx("abc")
		require.NoError(t, GetGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		getSavingGoalByID = func(context.Context, database.DB, int, int) (*model.SavingGoal, error) {
			return nil, fmt.Errorf("GetSavingGoalByID: %w", pgx.ErrNoRows)
		}
		ctx, rec := newGetCtx("7")
		require.NoError(t, GetGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success scoped to owner", func(t *testing.T) {
		t.Cleanup(restore)
		getSavingGoalByID = func(_ context.Context, _ database.DB, goalID, userID int) (*model.SavingGoal, error) {
			require.Equal(t, 7, goalID)
			require.Equal(t, 1, userID)
			return &model.SavingGoal{ID: 7, UserID: 1, GoalName: "house"}, nil
		}
		ctx, rec := newGetCtx("7")
		require.NoError(t, GetGoalHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "\"goal_name\":\"house\"")
	})
}
