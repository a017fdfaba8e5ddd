package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do serviço de usuários.
// Ela permite que o código externo (Handler) acesse a Categoria, a Mensagem pública e o Detalhe do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "INVALID_TOKEN")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Message() string  // Código curto e estável exposto ao cliente no campo "error"
	Detail() string   // Detalhe opcional, legível, exposto no campo "detail"
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Message() string  { return e.Msg }
func (e *ValidationError) Detail() string   { return "" }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// RegistrationError representa a recusa do diretório em criar o usuário (e-mail duplicado, falha de persistência).
// O Detail nunca carrega o texto do driver; o erro original fica disponível apenas via Unwrap para o log.
type RegistrationError struct {
	Reason string
	Err    error
}

func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro de Registro: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("Erro de Registro: %s", e.Reason)
}
func (e *RegistrationError) Category() string { return "REGISTRATION_ERROR" }
func (e *RegistrationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *RegistrationError) Message() string  { return "cannot register" }
func (e *RegistrationError) Detail() string   { return e.Reason }
func (e *RegistrationError) Unwrap() error    { return e.Err }

// NewRegistrationError cria um erro de registro com um detalhe genérico.
func NewRegistrationError(reason string, err error) AppError {
	return &RegistrationError{Reason: reason, Err: err}
}

// InvalidCredentialsError cobre e-mail desconhecido e senha incorreta sem distinguir os casos.
type InvalidCredentialsError struct{}

func (e *InvalidCredentialsError) Error() string    { return "Credenciais inválidas" }
func (e *InvalidCredentialsError) Category() string { return "INVALID_CREDENTIALS" }
func (e *InvalidCredentialsError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *InvalidCredentialsError) Message() string  { return "invalid credentials" }
func (e *InvalidCredentialsError) Detail() string   { return "" }
func (e *InvalidCredentialsError) Unwrap() error    { return nil }

// NewInvalidCredentialsError cria o erro uniforme de login.
func NewInvalidCredentialsError() AppError {
	return &InvalidCredentialsError{}
}

// InvalidTokenError cobre token malformado, assinatura inválida e token expirado.
// A causa fica em Err para o log, mas a resposta é sempre a mesma.
type InvalidTokenError struct {
	Msg string
	Err error
}

func (e *InvalidTokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Token inválido: %v", e.Err)
	}
	return "Token inválido"
}
func (e *InvalidTokenError) Category() string { return "INVALID_TOKEN" }
func (e *InvalidTokenError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *InvalidTokenError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "invalid token"
}
func (e *InvalidTokenError) Detail() string { return "" }
func (e *InvalidTokenError) Unwrap() error  { return e.Err }

// NewInvalidTokenError cria o erro uniforme de validação de token.
func NewInvalidTokenError(err error) AppError {
	return &InvalidTokenError{Err: err}
}

// NewMissingTokenError é usado pela camada de transporte quando não há header Bearer.
func NewMissingTokenError() AppError {
	return &InvalidTokenError{Msg: "missing token"}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Message() string  { return "not found" }
func (e *NotFoundError) Detail() string   { return "" }
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa violação de unicidade no diretório (e-mail já cadastrado).
type ConflictError struct {
	Msg string
	Err error
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Message() string  { return "conflict" }
func (e *ConflictError) Detail() string   { return "" }
func (e *ConflictError) Unwrap() error    { return e.Err }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string, err error) AppError {
	return &ConflictError{Msg: msg, Err: err}
}

// RateLimitError é retornado quando o cliente excede o limite de requisições.
type RateLimitError struct{}

func (e *RateLimitError) Error() string    { return "Limite de requisições excedido" }
func (e *RateLimitError) Category() string { return "RATE_LIMITED" }
func (e *RateLimitError) HTTPStatus() int  { return http.StatusTooManyRequests } // 429
func (e *RateLimitError) Message() string  { return "rate limit exceeded" }
func (e *RateLimitError) Detail() string   { return "" }
func (e *RateLimitError) Unwrap() error    { return nil }

// NewRateLimitError cria um erro de limite de requisições.
func NewRateLimitError() AppError {
	return &RateLimitError{}
}

// --- Erros de Configuração (fatais na inicialização) ---

// ConfigurationError indica ausência ou valor inválido de configuração obrigatória.
type ConfigurationError struct {
	Key string
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Erro de Configuração: %s: %s", e.Key, e.Msg)
}
func (e *ConfigurationError) Category() string { return "CONFIGURATION_ERROR" }
func (e *ConfigurationError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *ConfigurationError) Message() string  { return "internal error" }
func (e *ConfigurationError) Detail() string   { return "" }
func (e *ConfigurationError) Unwrap() error    { return nil }

// NewConfigurationError cria um erro de configuração para a chave informada.
func NewConfigurationError(key, msg string) AppError {
	return &ConfigurationError{Key: key, Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro Interno: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Erro Interno: %s", e.Msg)
}
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Message() string  { return "internal error" }
func (e *InternalError) Detail() string   { return "" }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB)", msg), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, a mensagem pública e o detalhe.
// Erros internos nunca expõem o texto original.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Message(), appErr.Detail()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	return http.StatusInternalServerError, "internal error", ""
}
