package withdrawal

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"nestlock/internal/api"
	"nestlock/internal/database"
	"nestlock/internal/middleware"
	"nestlock/internal/model"
	"nestlock/internal/notify"
	"nestlock/internal/service"
	"nestlock/internal/store"
	"nestlock/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var (
	getSavingGoalByUserID  = store.GetSavingGoalByUserID
	createWithdrawal       = store.CreateWithdrawal
	getWithdrawalByID      = store.GetWithdrawalByID
	getUserByID            = store.GetUserByID
	resolveWithdrawal      = store.ResolveWithdrawal
	deductSavingGoalFunds  = store.DeductSavingGoalFunds
	listWithdrawals        = store.ListWithdrawalsByUserID
	listPendingForCoSigner = store.ListPendingWithdrawalsForCoSigner
	logPrintf              = log.Printf
)

func withdrawalResponse(w *model.WithdrawalRequest) api.WithdrawalResponse {
	return api.WithdrawalResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Amount:    w.Amount,
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt,
	}
}

// @Summary     Request a withdrawal
// @Description 建立提領申請並通知 co-signer
// @Description 鎖定期內仍可提出申請：鎖定期擋的是單方提領，放行與否由 co-signer 審核
// @Tags        withdrawal
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       amount formData string true "提領金額（正數）"
// @Success     201 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /withdrawal/request [post]
func RequestWithdrawalHandler(db database.DB, dispatcher notify.Dispatcher, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.CreateWithdrawalRequest
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

		ctx := c.Request().Context()
		goal, err := getSavingGoalByUserID(ctx, db, claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "no saving goal found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if amount.GreaterThan(goal.CurrentAmount) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Message: fmt.Sprintf("insufficient funds in saving goal, you can withdraw up to %s", goal.CurrentAmount),
			})
		}

		w, err := createWithdrawal(ctx, db, &model.WithdrawalRequest{
			UserID: claims.UserID,
			Amount: amount,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		// 通知 co-signer，失敗僅記錄，不影響申請結果
		if owner, err := getUserByID(ctx, db, claims.UserID); err != nil {
			logPrintf("withdrawal %d: lookup co-signer failed: %v", w.ID, err)
		} else {
			to := owner.CoSignerEmail
			subject := "Withdrawal approval requested"
			body := fmt.Sprintf("%s requested a withdrawal of %s from goal %q. Please review pending requests.",
				owner.Name, w.Amount, goal.GoalName)
			wp.Submit(func() {
				if err := dispatcher.Send(to, subject, body); err != nil {
					logPrintf("withdrawal %d: notify co-signer failed: %v", w.ID, err)
				}
			})
		}

		return c.JSON(http.StatusCreated, api.MessageResponse{Message: "withdrawal request sent to co-signer"})
	}
}

// @Summary     Approve or reject a withdrawal
// @Description 僅限請領者指定的 co-signer 審核；每筆申請僅能處理一次
// @Tags        withdrawal
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       id     path     int    true "提領申請 ID"
// @Param       status formData string true "approved 或 rejected"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /withdrawal/approve/{id} [post]
func ResolveWithdrawalHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid withdrawal ID"})
		}

		var req api.ResolveWithdrawalRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		decision := model.WithdrawalStatus(req.Status)
		if !model.ValidDecision(decision) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid status"})
		}

		ctx := c.Request().Context()
		w, err := getWithdrawalByID(ctx, db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "withdrawal not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		owner, err := getUserByID(ctx, db, w.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if !service.IsCoSigner(owner, claims.Email) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not authorized"})
		}

		if w.Status != model.WithdrawalPending {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "withdrawal already processed"})
		}

		// CAS：併發審核時僅一方轉移成功
		resolved, err := resolveWithdrawal(ctx, db, id, decision)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		if !resolved {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "withdrawal already processed"})
		}

		if decision == model.WithdrawalRejected {
			return c.JSON(http.StatusOK, api.MessageResponse{Message: "withdrawal rejected"})
		}

		// 餘額不足時扣款為 no-op，核准狀態不回滾
		deducted, err := deductSavingGoalFunds(ctx, db, owner.ID, w.Amount)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		if !deducted {
			logPrintf("withdrawal %d: approved but balance below %s, settlement skipped", w.ID, w.Amount)
		}

		return c.JSON(http.StatusOK, api.MessageResponse{Message: "withdrawal approved and processed"})
	}
}

// @Summary     List own withdrawals
// @Description 列出當前使用者的所有提領申請（任何狀態）
// @Tags        withdrawal
// @Produce     json
// @Success     200 {array} api.WithdrawalResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /withdrawal [get]
func ListMyWithdrawalsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		withdrawals, err := listWithdrawals(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		resp := make([]api.WithdrawalResponse, 0, len(withdrawals))
		for i := range withdrawals {
			resp = append(resp, withdrawalResponse(&withdrawals[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     List pending withdrawals for co-signer
// @Description 列出所有指定當前使用者為 co-signer 的待審提領
// @Tags        withdrawal
// @Produce     json
// @Success     200 {array} api.WithdrawalResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /withdrawal/pending [get]
func ListPendingHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		withdrawals, err := listPendingForCoSigner(c.Request().Context(), db, service.NormalizeEmail(claims.Email))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		resp := make([]api.WithdrawalResponse, 0, len(withdrawals))
		for i := range withdrawals {
			resp = append(resp, withdrawalResponse(&withdrawals[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
