package api

// swagger:model api.CreateWithdrawalRequest
type CreateWithdrawalRequest struct {
	Amount string `form:"amount" validate:"required" example:"100000"`
}
