package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gousers/internal/domain"
	apperror "gousers/internal/errors"
	"gousers/internal/pkg/logger"
	"gousers/internal/pkg/middleware"
)

// maxBodyBytes limita o tamanho do payload JSON aceito.
const maxBodyBytes = 1 << 20

// AuthService define o contrato que o Handler espera da camada de Serviço.
type AuthService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.UserSummary, error)
	Login(ctx context.Context, email string, password string) (string, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"pw123456"`
}

// Handler agrupa os handlers de autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse padroniza respostas de sucesso e o corpo de erro {error, detail?}.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		h.Logger.Debug("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	// Mapeamento de Erros de Negócio para Status HTTP
	status, message, detail := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor em %s", r.URL.Path), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d.", status), map[string]interface{}{"path": r.URL.Path, "error": message})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Error: message, Detail: detail})
}

// RegisterHandler lida com a requisição POST /auth/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e salva no banco de dados. O hash nunca é retornado.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Email, senha e papel opcional (reader, author, admin)"
// @Success 201 {object} domain.UserSummary "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Campos ausentes, papel inválido ou e-mail já cadastrado"
// @Router /auth/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var reg domain.UserRegistration
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("email and password required"), http.StatusCreated)
		return
	}

	// Hashing e persistência acontecem no serviço
	summary, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, summary, nil, http.StatusCreated)
}

// LoginHandler lida com a requisição POST /auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe email/senha, verifica a validade e emite um token válido por 12 horas.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} domain.TokenResponse "Token JWT emitido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	// Payload ilegível é tratado como credenciais ausentes
	var loginReq LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewInvalidCredentialsError(), http.StatusOK)
		return
	}

	tokenString, err := h.Service.Login(r.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, domain.TokenResponse{Token: tokenString}, nil, http.StatusOK)
}

// MeHandler lida com a requisição GET /auth/me. Deve ser montado atrás do middleware de autenticação.
// @Summary Retorna a identidade contida no token
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Success 200 {object} domain.IdentityClaim "Claim decodificada"
// @Failure 401 {object} domain.ErrorResponse "Token ausente, inválido ou expirado"
// @Router /auth/me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claim, ok := middleware.GetIdentityClaimFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewMissingTokenError(), http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, claim, nil, http.StatusOK)
}
