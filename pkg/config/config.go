package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "CSM"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	// Environment variable names used by tests and operational tooling.
	EnvAppEnv   = "CSM_APP_ENV"
	EnvPort     = "CSM_APP_PORT"
	EnvDBDSN    = "CSM_DB_DSN"
	EnvRedisURL = "CSM_REDIS_URL"
	EnvProvider = "CSM_LLM_PROVIDER"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
	CORS     CORSConfig
}

// Load reads and validates the full service configuration from environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.LLM.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CSM_APP_ENV" required:"true"`
	Port         string `envconfig:"CSM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CSM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CSM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CSM_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"CSM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CSM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CSM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CSM_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"CSM_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CSM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CSM_REDIS_ADDR"`
	Password     string        `envconfig:"CSM_REDIS_PASSWORD"`
	DB           int           `envconfig:"CSM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CSM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CSM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CSM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CSM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CSM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// LLMConfig selects and tunes the active text-generation backend. The
// provider switch is explicit configuration handed to the orchestrator, never
// process-global mutable state.
type LLMConfig struct {
	Provider        string        `envconfig:"CSM_LLM_PROVIDER" default:"gemini"`
	GeminiAPIKey    string        `envconfig:"CSM_GEMINI_API_KEY"`
	GeminiModel     string        `envconfig:"CSM_GEMINI_MODEL" default:"gemini-2.5-flash"`
	OpenAIAPIKey    string        `envconfig:"CSM_OPENAI_API_KEY"`
	OpenAIBaseURL   string        `envconfig:"CSM_OPENAI_BASE_URL" default:"https://api.openai.com/v1/chat/completions"`
	OpenAIModel     string        `envconfig:"CSM_OPENAI_MODEL" default:"gpt-4o-mini"`
	Temperature     float32       `envconfig:"CSM_LLM_TEMPERATURE" default:"0.1"`
	MaxOutputTokens int           `envconfig:"CSM_LLM_MAX_OUTPUT_TOKENS" default:"4096"`
	RequestTimeout  time.Duration `envconfig:"CSM_LLM_REQUEST_TIMEOUT" default:"90s"`
}

// ProviderEnum returns the parsed provider selector.
func (l LLMConfig) ProviderEnum() enums.LLMProvider {
	return enums.LLMProvider(strings.ToLower(strings.TrimSpace(l.Provider)))
}

func (l LLMConfig) validate() error {
	if !l.ProviderEnum().IsValid() {
		return fmt.Errorf("unknown llm provider %q", l.Provider)
	}
	return nil
}

type AnalysisConfig struct {
	// DraftTTL bounds how long cached drafts and per-phase raw responses
	// survive in Redis before a new message clears them anyway.
	DraftTTL       time.Duration `envconfig:"CSM_ANALYSIS_DRAFT_TTL" default:"72h"`
	CatalogLimit   int           `envconfig:"CSM_ANALYSIS_CATALOG_LIMIT" default:"500"`
	ClientLimit    int           `envconfig:"CSM_ANALYSIS_CLIENT_LIMIT" default:"500"`
	SessionTimeout time.Duration `envconfig:"CSM_ANALYSIS_SESSION_TIMEOUT" default:"5m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CSM_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
