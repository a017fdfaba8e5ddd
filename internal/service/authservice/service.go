package authservice

import (
	"context"
	"errors"
	"time"

	"gousers/internal/domain"
	apperror "gousers/internal/errors"
	"gousers/internal/pkg/logger"
	"gousers/internal/pkg/password"
)

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(identity domain.VerifiedIdentity) (string, error)
	ValidateToken(tokenString string) (domain.IdentityClaim, error)
}

// Service é a autoridade de credenciais e tokens: transforma senhas em segredos armazenáveis,
// verifica credenciais e emite/valida tokens de identidade. Não guarda estado entre chamadas;
// todo estado durável está no UserRepository.
type Service struct {
	userRepo domain.UserRepository
	tokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do Service, injetando o Repositório, o serviço de token e o Logger.
func NewService(repo domain.UserRepository, tokenSvc TokenService, log logger.Logger) *Service {
	return &Service{
		userRepo: repo,
		tokenSvc: tokenSvc,
		logger:   log,
	}
}

// Register registra um novo usuário no sistema.
// Ele valida a entrada, faz o hashing da senha e delega a criação ao Repositório.
func (s *Service) Register(ctx context.Context, registration domain.UserRegistration) (domain.UserSummary, error) {
	// 1. Validação Básica
	if registration.Email == "" || registration.Password == "" {
		return domain.UserSummary{}, apperror.NewValidationError("email and password required")
	}

	role := registration.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return domain.UserSummary{}, apperror.NewValidationError("invalid role")
	}

	// 2. Hashing da Senha (bcrypt com salt aleatório)
	hashedPassword, err := password.Hash(registration.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return domain.UserSummary{}, apperror.NewValidationError("password too long")
		}
		return domain.UserSummary{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 3. Criação do Objeto User
	now := time.Now().UTC()
	newUser := domain.User{
		Email:        registration.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. Chamada ao Repositório para Persistência
	user, err := s.userRepo.Save(ctx, newUser)
	if err != nil {
		var conflictErr *apperror.ConflictError
		if errors.As(err, &conflictErr) {
			s.logger.Info("Registro recusado: e-mail já cadastrado.", map[string]interface{}{"email": registration.Email})
			return domain.UserSummary{}, apperror.NewRegistrationError("email already registered", err)
		}

		// Falha genérica de persistência: o detalhe do driver fica apenas no log
		s.logger.Error("Falha ao persistir usuário.", err)
		return domain.UserSummary{}, apperror.NewRegistrationError("could not persist user", err)
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user.Summary(), nil
}

// Authenticate verifica o par e-mail/senha.
// E-mail desconhecido e senha incorreta retornam exatamente o mesmo erro.
func (s *Service) Authenticate(ctx context.Context, email string, plain string) (domain.VerifiedIdentity, error) {
	// 1. Campos vazios contam como credenciais inválidas (não como erro de validação)
	if email == "" || plain == "" {
		return domain.VerifiedIdentity{}, apperror.NewInvalidCredentialsError()
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			// Mesmo custo de CPU do caminho "senha incorreta"
			password.CompareDummy(plain)
			return domain.VerifiedIdentity{}, apperror.NewInvalidCredentialsError()
		}
		s.logger.Error("Falha ao buscar usuário para autenticação.", err)
		return domain.VerifiedIdentity{}, apperror.NewInternalError("Falha ao buscar usuário.", err)
	}

	// 3. Comparar Senhas
	if err := password.Compare(user.PasswordHash, plain); err != nil {
		return domain.VerifiedIdentity{}, apperror.NewInvalidCredentialsError()
	}

	return domain.VerifiedIdentity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// IssueToken emite um token assinado, válido por 12 horas, para a identidade verificada.
func (s *Service) IssueToken(identity domain.VerifiedIdentity) (string, error) {
	tokenString, err := s.tokenSvc.GenerateToken(identity)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}
	return tokenString, nil
}

// ValidateToken decodifica um token apresentado. Assinatura inválida, token malformado
// e janela expirada produzem o mesmo InvalidTokenError.
func (s *Service) ValidateToken(tokenString string) (domain.IdentityClaim, error) {
	claim, err := s.tokenSvc.ValidateToken(tokenString)
	if err != nil {
		s.logger.Debug("Token rejeitado.", map[string]interface{}{"reason": err.Error()})
		return domain.IdentityClaim{}, apperror.NewInvalidTokenError(err)
	}
	return claim, nil
}

// Login autentica um usuário e emite o token.
func (s *Service) Login(ctx context.Context, email string, plain string) (string, error) {
	identity, err := s.Authenticate(ctx, email, plain)
	if err != nil {
		return "", err
	}

	tokenString, err := s.IssueToken(identity)
	if err != nil {
		return "", err
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": identity.ID})
	return tokenString, nil
}
