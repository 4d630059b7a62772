package saving

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"nestlock/internal/api"
	"nestlock/internal/database"
	"nestlock/internal/middleware"
	"nestlock/internal/model"
	"nestlock/internal/service"
	"nestlock/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var (
	createSavingGoal      = store.CreateSavingGoal
	getSavingGoalByUserID = store.GetSavingGoalByUserID
	getSavingGoalByID     = store.GetSavingGoalByID
	listSavingGoals       = store.ListSavingGoalsByUserID
	addSavingGoalFunds    = store.AddSavingGoalFunds
)

func goalResponse(g *model.SavingGoal) api.GoalResponse {
	return api.GoalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		GoalName:      g.GoalName,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		LockUntil:     g.LockUntil,
		CreatedAt:     g.CreatedAt,
	}
}

// @Summary     Create a saving goal
// @Description 建立儲蓄目標；每位使用者僅能有一個
// @Tags        saving
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       goal_name     formData string true "目標名稱"
// @Param       target_amount formData string true "目標金額（正數）"
// @Param       lock_until    formData string true "鎖定期限 (RFC3339)"
// @Success     201 {object} api.GoalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /saving/create [post]
func CreateGoalHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.CreateGoalRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		target, err := decimal.NewFromString(req.TargetAmount)
		if err != nil || !target.IsPositive() {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "target amount must be a positive number"})
		}
		lockUntil, err := time.Parse(time.RFC3339, req.LockUntil)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "lock_until must be an RFC3339 timestamp"})
		}

		ctx := c.Request().Context()
		if _, err := getSavingGoalByUserID(ctx, db, claims.UserID); err == nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "saving goal already exists"})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		goal, err := createSavingGoal(ctx, db, &model.SavingGoal{
			UserID:       claims.UserID,
			GoalName:     req.GoalName,
			TargetAmount: target,
			LockUntil:    lockUntil,
		})
		if err != nil {
			// 唯一索引防住併發建立
			if store.IsUniqueViolation(err) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "saving goal already exists"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, goalResponse(goal))
	}
}

// @Summary     Add funds to the saving goal
// @Description 存入金額（正數），回傳更新後的目標
// @Tags        saving
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       amount formData string true "存入金額（正數）"
// @Success     200 {object} api.GoalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /saving/add [post]
func AddFundsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.AddFundsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || !amount.IsPositive() {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "amount must be a positive number"})
		}

		goal, err := addSavingGoalFunds(c.Request().Context(), db, claims.UserID, amount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "saving goal not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, goalResponse(goal))
	}
}

// @Summary     List saving goals
// @Description 列出當前使用者的儲蓄目標（現行設計至多一筆）
// @Tags        saving
// @Produce     json
// @Success     200 {array} api.GoalResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /saving [get]
func ListGoalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		goals, err := listSavingGoals(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		resp := make([]api.GoalResponse, 0, len(goals))
		for i := range goals {
			resp = append(resp, goalResponse(&goals[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Get a saving goal by ID
// @Description 查詢單一儲蓄目標；僅能查詢屬於自己的目標
// @Tags        saving
// @Produce     json
// @Param       id path int true "目標 ID"
// @Success     200 {object} api.GoalResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /saving/{id} [get]
func GetGoalHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid goal ID"})
		}

		goal, err := getSavingGoalByID(c.Request().Context(), db, id, claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "saving goal not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, goalResponse(goal))
	}
}
