package service

import (
	"strings"

	"nestlock/internal/model"
)

// NormalizeEmail 去除前後空白並轉為小寫
// 所有寫入與比對一律先經過此函式
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsOwner 回報 userID 是否為資源擁有者
func IsOwner(userID, ownerID int) bool {
	return userID == ownerID
}

// IsCoSigner 回報 email 是否為 owner 指定的 co-signer
// 比對不分大小寫、不受空白影響
func IsCoSigner(owner *model.User, email string) bool {
	if owner == nil {
		return false
	}
	return NormalizeEmail(owner.CoSignerEmail) == NormalizeEmail(email)
}
