package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "gousers/docs" // registra o documento Swagger
	"gousers/internal/api/auth"
	"gousers/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
// limiter pode ser nil (rate limiting desativado).
func NewRouter(authHandler *auth.Handler, validator middleware.TokenValidator, limiter func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Rotas de Health Check e Documentação ---
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 2. Rotas de Autenticação ---
	// O método é conferido antes do limitador e da autenticação: verbo errado é 405,
	// não consome cota e não vira 401.
	mux.Handle("/auth/register", allowMethod(http.MethodPost, limited(limiter, http.HandlerFunc(authHandler.RegisterHandler))))
	mux.Handle("/auth/login", allowMethod(http.MethodPost, limited(limiter, http.HandlerFunc(authHandler.LoginHandler))))

	requireAuth := middleware.NewAuthMiddleware(validator)
	mux.Handle("/auth/me", allowMethod(http.MethodGet, requireAuth(authHandler.MeHandler)))

	return mux
}

func limited(limiter func(http.Handler) http.Handler, h http.Handler) http.Handler {
	if limiter == nil {
		return h
	}
	return limiter(h)
}

func allowMethod(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
