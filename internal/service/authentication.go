package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"nestlock/internal/cache"
	"nestlock/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容
// Email 於審核提領時作為 co-signer 身分比對依據
type CustomClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshTokenData 為 refresh token 在快取中對應的內容
type RefreshTokenData struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}

// AuthenticateUser 比對使用者密碼，成功回傳 nil
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return errors.New("invalid password")
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Email:  NormalizeEmail(user.Email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// IssueRefreshToken 產生隨機 refresh token 並存入快取
func IssueRefreshToken(ctx context.Context, c cache.Cache, userID int, email string, ttl time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := randRead(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	data, err := jsonMarshal(RefreshTokenData{UserID: userID, Email: NormalizeEmail(email)})
	if err != nil {
		return "", err
	}
	if err := c.Set(ctx, refreshTokenKey(token), data, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefreshToken 驗證 refresh token 並回傳對應資料
func ValidateRefreshToken(ctx context.Context, c cache.Cache, token string) (*RefreshTokenData, error) {
	val, err := c.Get(ctx, refreshTokenKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	var data RefreshTokenData
	if err := jsonUnmarshal([]byte(val), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RevokeRefreshToken 自快取刪除 refresh token
func RevokeRefreshToken(ctx context.Context, c cache.Cache, token string) error {
	return c.Del(ctx, refreshTokenKey(token)).Err()
}

func refreshTokenKey(token string) string {
	return "refresh_token:" + token
}
