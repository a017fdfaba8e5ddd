package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	apperror "gousers/internal/errors"
	"gousers/internal/pkg/cache"
	"gousers/internal/pkg/logger"
)

// rateLimitTimeout limita quanto tempo a requisição espera pelo Redis.
const rateLimitTimeout = 500 * time.Millisecond

// RateLimiter aplica uma janela fixa de `limit` requisições por IP a cada `period`.
// Falhas do Redis não bloqueiam o tráfego: a requisição segue e o erro é logado.
func RateLimiter(client cache.Client, limit int, period time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + r.URL.Path + ":" + ip

			ctx, cancel := context.WithTimeout(r.Context(), rateLimitTimeout)
			defer cancel()

			count, err := client.Incr(ctx, key)
			if err != nil {
				log.Error("Falha ao consultar o rate limiter no Redis.", err)
				next.ServeHTTP(w, r)
				return
			}

			// Primeira requisição da janela, ou contador que ficou sem TTL
			// porque um Expire anterior falhou: (re)arma a janela.
			if count == 1 || missingTTL(ctx, client, key, log) {
				if err := client.Expire(ctx, key, period); err != nil {
					log.Error("Falha ao definir TTL do rate limiter.", err)
				}
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				log.Warn("Limite de requisições excedido.", map[string]interface{}{"ip": ip, "path": r.URL.Path})
				writeError(w, apperror.NewRateLimitError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// missingTTL informa se a chave existe sem expiração. Erro na consulta conta como
// "não sei": a próxima requisição tenta de novo.
func missingTTL(ctx context.Context, client cache.Client, key string, log logger.Logger) bool {
	ttl, err := client.TTL(ctx, key)
	if err != nil {
		log.Error("Falha ao consultar TTL do rate limiter.", err)
		return false
	}
	return ttl < 0
}
