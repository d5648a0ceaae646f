// Package config gerencia configurações da aplicação via variáveis de ambiente.
//
// # Variáveis de Ambiente
//
// ## Servidor
//   - SERVER_PORT: Porta HTTP (default: 8080)
//   - GIN_MODE: Modo do gin (default: release)
//   - LOG_LEVEL: Nível de log (default: info)
//   - LOG_DEVELOPMENT: Desativa sampling de logs (default: false)
//
// ## Persistência
//   - DATABASE_URL: DSN do Postgres para eventos de analytics
//   - REDIS_ADDRESS: Endereço do Redis para cache compartilhado de recomendações (vazio = cache em memória)
//   - REDIS_PASSWORD / REDIS_DB
//
// ## Identidade
//   - JWT_SECRET: Segredo HS256 para validar tokens (vazio = apenas headers do gateway)
//   - AUTH_COOKIE_NAME: Cookie com o token (default: auth_token)
//
// ## Recomendações
//   - RECOMMENDER_PROVIDER: gemini, openai ou none (default: gemini)
//   - GEMINI_API_KEY / GEMINI_CHAT_MODEL (default: gemini-2.0-flash)
//   - OPENAI_API_KEY / OPENAI_MODEL (default: gpt-4-turbo) / OPENAI_BASE_URL
//   - RECOMMENDATION_CACHE_TTL_MINUTES: TTL do cache (default: 30)
//   - RECOMMENDATION_CACHE_MAX_SIZE: Máximo de entradas em memória (default: 1000)
//   - RECOMMENDATION_TIMEOUT_SECONDS: Timeout da chamada ao modelo (default: 30)
//   - PERSONALIZATION_DEDUPE_INFLIGHT: Compartilha chamadas concorrentes por usuário (default: false)
//   - BREAKER_FAILURE_THRESHOLD: Falhas consecutivas até abrir o circuito (default: 5)
//   - BREAKER_OPEN_SECONDS: Tempo com o circuito aberto (default: 60)
//
// ## Priorização
//   - PRIORITIZATION_THRESHOLD: Diferença mínima de razão para reordenar (default: 0.1)
//   - PRIORITIZATION_DEBOUNCE_MS: Debounce do reordenamento (default: 100)
//
// ## Analytics
//   - ANALYTICS_BUFFER_SIZE (default: 1000)
//   - ANALYTICS_FLUSH_INTERVAL_SECONDS (default: 1)
//   - ANALYTICS_FLUSH_THRESHOLD (default: 100)
//   - RATE_LIMIT_RPS / RATE_LIMIT_BURST: Limite por IP na ingestão (default: 20 / 40)
//
// ## Tracing
//   - TRACING_ENABLED (default: false)
//   - TRACING_ENDPOINT (default: localhost:4317)
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provedores de recomendação suportados
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type Config struct {
	ServerPort     string
	GinMode        string
	LogLevel       string
	LogDevelopment bool

	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	AuthCookieName string

	// Tracing configuration
	TracingEnabled  bool
	TracingEndpoint string

	Recommendation RecommendationConfig
	Prioritization PrioritizationConfig
	Analytics      AnalyticsConfig
}

// RecommendationConfig contém a configuração do gerador de recomendações
type RecommendationConfig struct {
	Provider string

	GeminiAPIKey    string
	GeminiChatModel string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// TTL do cache de recomendações
	CacheTTL time.Duration

	// Máximo de entradas no cache em memória
	CacheMaxSize int

	// Timeout da chamada ao modelo
	Timeout time.Duration

	// Compartilha chamadas concorrentes para a mesma chave
	DedupeInFlight bool

	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
}

// PrioritizationConfig contém parâmetros do priorizador por razão
type PrioritizationConfig struct {
	Threshold float64
	Debounce  time.Duration
}

// AnalyticsConfig contém parâmetros da ingestão de eventos
type AnalyticsConfig struct {
	BufferSize     int
	FlushInterval  time.Duration
	FlushThreshold int
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDevelopment: getEnvBool("LOG_DEVELOPMENT", false),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AuthCookieName: getEnv("AUTH_COOKIE_NAME", "auth_token"),

		// Tracing configuration
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),

		Recommendation: RecommendationConfig{
			Provider:                strings.ToLower(getEnv("RECOMMENDER_PROVIDER", ProviderGemini)),
			GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
			GeminiChatModel:         getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),
			OpenAIAPIKey:            getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:             getEnv("OPENAI_MODEL", "gpt-4-turbo"),
			OpenAIBaseURL:           getEnv("OPENAI_BASE_URL", ""),
			CacheTTL:                time.Duration(getEnvInt("RECOMMENDATION_CACHE_TTL_MINUTES", 30)) * time.Minute,
			CacheMaxSize:            getEnvInt("RECOMMENDATION_CACHE_MAX_SIZE", 1000),
			Timeout:                 time.Duration(getEnvInt("RECOMMENDATION_TIMEOUT_SECONDS", 30)) * time.Second,
			DedupeInFlight:          getEnvBool("PERSONALIZATION_DEDUPE_INFLIGHT", false),
			BreakerFailureThreshold: uint32(getEnvInt("BREAKER_FAILURE_THRESHOLD", 5)),
			BreakerOpenTimeout:      time.Duration(getEnvInt("BREAKER_OPEN_SECONDS", 60)) * time.Second,
		},

		Prioritization: PrioritizationConfig{
			Threshold: getEnvFloat("PRIORITIZATION_THRESHOLD", 0.1),
			Debounce:  time.Duration(getEnvInt("PRIORITIZATION_DEBOUNCE_MS", 100)) * time.Millisecond,
		},

		Analytics: AnalyticsConfig{
			BufferSize:     getEnvInt("ANALYTICS_BUFFER_SIZE", 1000),
			FlushInterval:  time.Duration(getEnvInt("ANALYTICS_FLUSH_INTERVAL_SECONDS", 1)) * time.Second,
			FlushThreshold: getEnvInt("ANALYTICS_FLUSH_THRESHOLD", 100),
			RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
		},
	}
}

// Validate verifica se os valores carregados fazem sentido
func (c *Config) Validate() error {
	var errs []error

	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT não pode ser vazio"))
	}

	switch c.Recommendation.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("RECOMMENDER_PROVIDER inválido: %q", c.Recommendation.Provider))
	}

	if c.Recommendation.CacheTTL <= 0 {
		errs = append(errs, errors.New("RECOMMENDATION_CACHE_TTL_MINUTES deve ser positivo"))
	}
	if c.Recommendation.Timeout <= 0 {
		errs = append(errs, errors.New("RECOMMENDATION_TIMEOUT_SECONDS deve ser positivo"))
	}
	if c.Prioritization.Threshold < 0 || c.Prioritization.Threshold > 1 {
		errs = append(errs, fmt.Errorf("PRIORITIZATION_THRESHOLD fora de [0,1]: %v", c.Prioritization.Threshold))
	}
	if c.Prioritization.Debounce < 0 {
		errs = append(errs, errors.New("PRIORITIZATION_DEBOUNCE_MS não pode ser negativo"))
	}
	if c.Analytics.BufferSize <= 0 || c.Analytics.FlushThreshold <= 0 {
		errs = append(errs, errors.New("ANALYTICS_BUFFER_SIZE e ANALYTICS_FLUSH_THRESHOLD devem ser positivos"))
	}
	if c.Analytics.FlushInterval <= 0 {
		errs = append(errs, errors.New("ANALYTICS_FLUSH_INTERVAL_SECONDS deve ser positivo"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
