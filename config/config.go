package config

import (
	"log"
	"os"
	"strconv"
	"time"

	apperror "gousers/internal/errors"
)

// TokenValidity é a janela fixa de validade de um token de identidade.
const TokenValidity = 12 * time.Hour

// Config armazena todas as configurações do serviço de usuários.
// É lida uma única vez na inicialização e injetada nas camadas (nada de estado global).
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis) usado pelo rate limiter. Vazio desativa o limite.
	RedisAddr string

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting de /auth/register e /auth/login
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// A ausência de DATABASE_URL ou do segredo JWT é um ConfigurationError (fatal no main).
func LoadConfig() (*Config, error) {
	databaseURL, err := LoadDatabaseURL()
	if err != nil {
		return nil, err
	}

	// JWT_SECRET tem precedência; JWT_SECRET_KEY continua aceito.
	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		secret = getEnv("JWT_SECRET_KEY", "")
	}
	if secret == "" {
		return nil, apperror.NewConfigurationError("JWT_SECRET", "a variável de ambiente deve ser definida")
	}

	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		DatabaseURL: databaseURL,
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// 4. Segurança (JWT)
		JWTSecretKey: secret,
		TokenExpiry:  TokenValidity,

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 20),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg, nil
}

// LoadDatabaseURL lê apenas DATABASE_URL. Usado pelo cmd/migrate, que não precisa do segredo JWT.
func LoadDatabaseURL() (string, error) {
	return mustGetEnv("DATABASE_URL")
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente obrigatória; vazia conta como ausente.
func mustGetEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value, nil
	}
	return "", apperror.NewConfigurationError(key, "a variável de ambiente deve ser definida")
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
