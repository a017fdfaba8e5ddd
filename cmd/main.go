package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"gousers/config"
	"gousers/internal/pkg/cache"
	"gousers/internal/pkg/database"
	"gousers/internal/pkg/logger"
	"gousers/internal/pkg/middleware"
	"gousers/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"gousers/internal/api/auth"
	"gousers/internal/api/router"
	"gousers/internal/repository/userrepo"
	"gousers/internal/service/authservice"
)

func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// Sem .env seguimos apenas com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração (ausência de DATABASE_URL ou JWT_SECRET é fatal)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logr := logger.NewLogger(cfg.LogLevel)
	logr.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logr.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	logr.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis) para o rate limiter
	var limiter func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			logr.Error("Redis indisponível; o rate limiter seguirá liberando requisições até a conexão voltar.", err)
		}
		defer redisClient.Close()
		limiter = middleware.RateLimiter(redisClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, logr)
		logr.Info("Rate limiter configurado.", map[string]interface{}{"addr": cfg.RedisAddr, "max": cfg.RateLimitMaxRequests})
	} else {
		logr.Warn("REDIS_ADDR vazio: rate limiting desativado.", nil)
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	tokenSvc, err := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	if err != nil {
		logr.Fatal("Falha ao inicializar o serviço de tokens.", err)
	}

	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, logr)
	authSvc := authservice.NewService(userRepo, tokenSvc, logr)
	authHandler := auth.NewHandler(authSvc, logr)
	logr.Debug("Camadas de autenticação inicializadas.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(authHandler, authSvc, limiter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		logr.Info("Serviço de usuários ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logr.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Error("Desligamento do servidor forçado.", err)
	}

	logr.Info("Servidor encerrado com sucesso.", nil)
}
