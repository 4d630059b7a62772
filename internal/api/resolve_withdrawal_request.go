package api

// swagger:model api.ResolveWithdrawalRequest
type ResolveWithdrawalRequest struct {
	Status string `form:"status" validate:"required,oneof=approved rejected" example:"approved"`
}
