package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gousers/internal/domain"
)

// Issuer identifica os tokens emitidos por este serviço.
const Issuer = "gousers"

// ErrInvalidToken é o erro único retornado para token malformado, assinatura inválida ou expirado.
var ErrInvalidToken = errors.New("token inválido")

// CustomClaims define as informações que armazenamos no JWT.
// O ID do usuário vai em "sub" (RegisteredClaims.Subject).
type CustomClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service assina e valida tokens de identidade com HMAC-SHA256.
type Service struct {
	secretKey []byte
	expiry    time.Duration
	now       func() time.Time
}

// Option ajusta o Service (usado principalmente nos testes).
type Option func(*Service)

// WithClock substitui o relógio usado na emissão e na validação.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService cria uma nova instância do serviço Token.
// Uma chave vazia é um erro de configuração e deve ser barrada antes de chegar aqui.
func NewService(secretKey string, expiry time.Duration, opts ...Option) (*Service, error) {
	if secretKey == "" {
		return nil, errors.New("chave de assinatura JWT vazia")
	}
	s := &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateToken cria um novo JWT assinado contendo ID, Role e Email do usuário.
func (s *Service) GenerateToken(identity domain.VerifiedIdentity) (string, error) {
	now := s.now()
	claims := CustomClaims{
		Role:  string(identity.Role),
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   identity.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token string e retorna a claim de identidade.
// Toda falha é reduzida a ErrInvalidToken (a causa fica encadeada para o log).
func (s *Service) ValidateToken(tokenString string) (domain.IdentityClaim, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.IdentityClaim{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return domain.IdentityClaim{}, ErrInvalidToken
	}

	return domain.IdentityClaim{
		SubjectID: claims.Subject,
		Role:      domain.UserRole(claims.Role),
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}
