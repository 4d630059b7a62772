package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name          string `form:"name" validate:"required" example:"Alice"`
	Email         string `form:"email" validate:"required,email" example:"alice@example.com"`
	Password      string `form:"password" validate:"required" example:"Secret123!"`
	CoSignerEmail string `form:"co_signer_email" validate:"required,email" example:"co@example.com"`
}
