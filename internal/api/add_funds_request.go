package api

// swagger:model api.AddFundsRequest
type AddFundsRequest struct {
	Amount string `form:"amount" validate:"required" example:"350000"`
}
