package api

// swagger:model api.TokenResponse
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	RefreshToken string `json:"refresh_token,omitempty" example:"dGhpcyBpcyBhIHRva2Vu"`
}
