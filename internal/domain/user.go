package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleReader UserRole = "reader"
	RoleAuthor UserRole = "author"
	RoleAdmin  UserRole = "admin"
)

// DefaultRole é atribuído quando o registro não informa um papel.
const DefaultRole = RoleReader

// Valid informa se o papel pertence à enumeração fixa.
func (r UserRole) Valid() bool {
	switch r {
	case RoleReader, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Email    string   `json:"email" example:"a@x.com"`
	Password string   `json:"password" example:"pw123456"`
	Role     UserRole `json:"role,omitempty" example:"author"`
}

// UserSummary é a visão pública de um usuário recém-criado (nunca contém o hash).
type UserSummary struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Summary converte a entidade para a visão pública.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Role: u.Role}
}

// VerifiedIdentity é o resultado de uma autenticação bem-sucedida.
type VerifiedIdentity struct {
	ID    string
	Email string
	Role  UserRole
}

// IdentityClaim é o conteúdo decodificado de um token válido.
type IdentityClaim struct {
	SubjectID string   `json:"sub"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
}

// UserRepository define o contrato de persistência (o diretório de usuários).
// Save deve falhar com ConflictError quando o e-mail já existir, sem alterar o estado.
// FindByEmail deve falhar com NotFoundError quando não houver registro.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}
