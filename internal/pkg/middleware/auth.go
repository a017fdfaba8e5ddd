package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gousers/internal/domain"
	apperror "gousers/internal/errors"
)

// ContextKey é o tipo das chaves que este pacote grava no contexto.
// Context Keys devem ser não-exportadas e de um tipo único.
type ContextKey int

const (
	IdentityClaimKey ContextKey = iota
)

const bearerPrefix = "Bearer "

// TokenValidator define o contrato de validação necessário para o middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (domain.IdentityClaim, error)
}

// NewAuthMiddleware cria um middleware que extrai o token do header
// "Authorization: Bearer <token>", valida-o e anexa a claim ao contexto da requisição.
func NewAuthMiddleware(validator TokenValidator) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// 1. Extrair o Token do Header Authorization
			tokenString, ok := BearerToken(r)
			if !ok {
				writeError(w, apperror.NewMissingTokenError())
				return
			}

			// 2. Validar o Token (malformado, assinatura e expiração caem no mesmo erro)
			claim, err := validator.ValidateToken(tokenString)
			if err != nil {
				writeError(w, err)
				return
			}

			// 3. Anexar Claim ao Contexto e seguir
			ctx := context.WithValue(r.Context(), IdentityClaimKey, claim)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// BearerToken retorna o token sem o prefixo "Bearer ". Token vazio conta como ausente.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
	return tokenString, tokenString != ""
}

// GetIdentityClaimFromContext é uma função utilitária para extrair a claim no handler.
func GetIdentityClaimFromContext(ctx context.Context) (domain.IdentityClaim, bool) {
	claim, ok := ctx.Value(IdentityClaimKey).(domain.IdentityClaim)
	return claim, ok
}

// writeError escreve o corpo de erro padronizado {error, detail?}.
func writeError(w http.ResponseWriter, err error) {
	status, message, detail := apperror.MapToHTTPStatus(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Error: message, Detail: detail})
}
