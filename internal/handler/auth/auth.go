package auth

import (
	"net/http"
	"net/mail"
	"time"

	"nestlock/internal/api"
	"nestlock/internal/cache"
	"nestlock/internal/database"
	"nestlock/internal/middleware"
	"nestlock/internal/model"
	"nestlock/internal/service"
	"nestlock/internal/store"

	"github.com/labstack/echo/v4"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

var (
	hashPassword         = service.HashPassword
	authenticateUser     = service.AuthenticateUser
	issueAccessToken     = service.IssueAccessToken
	issueRefreshToken    = service.IssueRefreshToken
	validateRefreshToken = service.ValidateRefreshToken
	revokeRefreshToken   = service.RevokeRefreshToken
	createUser           = store.CreateUser
	getUserByID          = store.GetUserByID
	getUserByEmail       = store.GetUserByEmail
)

// @Summary     Register a new user
// @Description 建立新帳號並指定 co-signer Email（Email 一律正規化後儲存）
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       name            formData string true "使用者姓名"
// @Param       email           formData string true "使用者 Email"
// @Param       password        formData string true "使用者密碼"
// @Param       co_signer_email formData string true "Co-signer Email"
// @Success     201 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		req.Email = service.NormalizeEmail(req.Email)
		req.CoSignerEmail = service.NormalizeEmail(req.CoSignerEmail)
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid email format"})
		}
		if _, err := mail.ParseAddress(req.CoSignerEmail); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid co-signer email format"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		if _, err := createUser(c.Request().Context(), db, &model.User{
			Name:          req.Name,
			Email:         req.Email,
			PasswordHash:  hash,
			CoSignerEmail: req.CoSignerEmail,
		}); err != nil {
			if store.IsUniqueViolation(err) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "user already exists"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, api.MessageResponse{Message: "user registered successfully"})
	}
}

// @Summary     Log in
// @Description 使用 Email 與 Password 驗證，回傳 access token 與 refresh token
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       email    formData string true "使用者 Email"
// @Param       password formData string true "使用者密碼"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		user, err := getUserByEmail(ctx, db, service.NormalizeEmail(req.Email))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}
		if err := authenticateUser(ctx, *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		token, err := issueAccessToken(*user, accessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}
		refreshToken, err := issueRefreshToken(ctx, rdb, user.ID, user.Email, refreshTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue refresh token"})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token, RefreshToken: refreshToken})
	}
}

// @Summary     Refresh access token
// @Description 以 refresh token 換發新的 access token（refresh token 會輪替）
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       refresh_token formData string true "Refresh token"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		data, err := validateRefreshToken(ctx, rdb, req.RefreshToken)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}

		user, err := getUserByID(ctx, db, data.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}

		token, err := issueAccessToken(*user, accessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		// 輪替：撤銷舊 token 後發新的一組
		if err := revokeRefreshToken(ctx, rdb, req.RefreshToken); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to rotate refresh token"})
		}
		refreshToken, err := issueRefreshToken(ctx, rdb, user.ID, user.Email, refreshTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue refresh token"})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token, RefreshToken: refreshToken})
	}
}

// @Summary     Get current user info
// @Description 透過 JWT Token 取得當前使用者詳細資訊
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.UserResponse{
			ID:            user.ID,
			Name:          user.Name,
			Email:         user.Email,
			CoSignerEmail: user.CoSignerEmail,
			CreatedAt:     user.CreatedAt,
		})
	}
}
