package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Error  string `json:"error" example:"cannot register"`
	Detail string `json:"detail,omitempty" example:"email already registered"`
}

// TokenResponse é o corpo de sucesso do login.
type TokenResponse struct {
	Token string `json:"token"`
}
