package router

import (
	"github.com/labstack/echo/v4"

	"nestlock/internal/cache"
	"nestlock/internal/database"
	"nestlock/internal/handler"
	"nestlock/internal/handler/auth"
	"nestlock/internal/handler/saving"
	"nestlock/internal/handler/withdrawal"
	"nestlock/internal/middleware"
	"nestlock/internal/notify"
	"nestlock/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, dispatcher notify.Dispatcher, wp worker.Pool) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db), middleware.RequireAuth)

	// 註冊與登入
	api.POST("/auth/register", auth.RegisterHandler(db))
	api.POST("/auth/login", auth.LoginHandler(db, rdb))
	api.POST("/auth/refresh", auth.RefreshHandler(db, rdb))
	api.GET("/users/me", auth.GetMyUserHandler(db), middleware.RequireAuth)

	// 儲蓄目標
	apiSaving := api.Group("/saving", middleware.RequireAuth)
	apiSaving.POST("/create", saving.CreateGoalHandler(db))
	apiSaving.POST("/add", saving.AddFundsHandler(db))
	apiSaving.GET("", saving.ListGoalsHandler(db))
	apiSaving.GET("/:id", saving.GetGoalHandler(db))

	// 提領申請與審核
	apiWithdrawal := api.Group("/withdrawal", middleware.RequireAuth)
	apiWithdrawal.POST("/request", withdrawal.RequestWithdrawalHandler(db, dispatcher, wp))
	apiWithdrawal.POST("/approve/:id", withdrawal.ResolveWithdrawalHandler(db))
	apiWithdrawal.GET("", withdrawal.ListMyWithdrawalsHandler(db))
	apiWithdrawal.GET("/pending", withdrawal.ListPendingHandler(db))
}
