package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/hongduc/quiz11/internal/llm"
)

// Config is the full application configuration. Values come from, in
// increasing priority: env-default tags, the optional YAML file, and the
// process environment (after a local .env is loaded).
type Config struct {
	Env     string  `yaml:"env" env:"QUIZ11_ENV" env-default:"local"`
	DBPath  string  `yaml:"db_path" env:"QUIZ11_DB"`
	LogPath string  `yaml:"log_path" env:"QUIZ11_LOG"`
	Catalog string  `yaml:"catalog" env:"QUIZ11_CATALOG"`
	LLM     LLM     `yaml:"llm"`
	Quiz    Quiz    `yaml:"quiz"`
	Results Results `yaml:"results"`
	HTTP    HTTP    `yaml:"http"`
}

// LLM selects and configures the question-generation model.
// An empty Provider means "discover from the standard *_API_KEY variables".
type LLM struct {
	Provider string        `yaml:"provider" env:"QUIZ11_LLM_PROVIDER"`
	Timeout  time.Duration `yaml:"timeout" env:"QUIZ11_LLM_TIMEOUT" env-default:"60s"`

	GeminiAPIKey string `yaml:"gemini_api_key" env:"QUIZ11_GEMINI_API_KEY"`
	GeminiModel  string `yaml:"gemini_model" env:"QUIZ11_GEMINI_MODEL" env-default:"gemini-flash"`

	AnthropicAPIKey string `yaml:"anthropic_api_key" env:"QUIZ11_ANTHROPIC_API_KEY"`
	AnthropicModel  string `yaml:"anthropic_model" env:"QUIZ11_ANTHROPIC_MODEL" env-default:"claude-haiku"`

	OpenAIAPIKey  string `yaml:"openai_api_key" env:"QUIZ11_OPENAI_API_KEY"`
	OpenAIModel   string `yaml:"openai_model" env:"QUIZ11_OPENAI_MODEL" env-default:"gpt-4o-mini"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"QUIZ11_OPENAI_BASE_URL"`

	OpenRouterAPIKey string `yaml:"openrouter_api_key" env:"QUIZ11_OPENROUTER_API_KEY"`
	OpenRouterModel  string `yaml:"openrouter_model" env:"QUIZ11_OPENROUTER_MODEL" env-default:"google/gemini-2.5-flash"`
}

// Quiz tunes question generation and the question screen.
type Quiz struct {
	TrueFalseCount int           `yaml:"true_false_count" env:"QUIZ11_TRUE_FALSE_COUNT" env-default:"4"`
	TrueLabel      string        `yaml:"true_label" env:"QUIZ11_TRUE_LABEL" env-default:"Đúng"`
	FalseLabel     string        `yaml:"false_label" env:"QUIZ11_FALSE_LABEL" env-default:"Sai"`
	Grade          int           `yaml:"grade" env:"QUIZ11_GRADE" env-default:"11"`
	MaxTokens      int           `yaml:"max_tokens" env:"QUIZ11_MAX_TOKENS" env-default:"8192"`
	Temperature    float64       `yaml:"temperature" env:"QUIZ11_TEMPERATURE" env-default:"0.7"`
	RevealDelay    time.Duration `yaml:"reveal_delay" env:"QUIZ11_REVEAL_DELAY" env-default:"3s"`
}

// Results configures where finished quiz results are submitted.
type Results struct {
	Kind    string        `yaml:"kind" env:"QUIZ11_RESULTS_KIND" env-default:"sheet"`
	Timeout time.Duration `yaml:"timeout" env:"QUIZ11_RESULTS_TIMEOUT" env-default:"15s"`

	SheetURL string `yaml:"sheet_url" env:"QUIZ11_SHEET_URL"`

	RedisAddr     string `yaml:"redis_addr" env:"QUIZ11_REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"QUIZ11_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"QUIZ11_REDIS_DB" env-default:"0"`
	RedisKey      string `yaml:"redis_key" env:"QUIZ11_REDIS_KEY" env-default:"quiz11:results"`

	AMQPURL        string `yaml:"amqp_url" env:"QUIZ11_AMQP_URL"`
	AMQPExchange   string `yaml:"amqp_exchange" env:"QUIZ11_AMQP_EXCHANGE" env-default:"quiz11"`
	AMQPRoutingKey string `yaml:"amqp_routing_key" env:"QUIZ11_AMQP_ROUTING_KEY" env-default:"results.submitted"`

	PostgresDSN   string `yaml:"postgres_dsn" env:"QUIZ11_POSTGRES_DSN"`
	PostgresTable string `yaml:"postgres_table" env:"QUIZ11_POSTGRES_TABLE" env-default:"quiz_results"`
}

// HTTP configures the serve command.
type HTTP struct {
	Address      string        `yaml:"address" env:"QUIZ11_HTTP_ADDRESS" env-default:"localhost:8081"`
	Timeout      time.Duration `yaml:"timeout" env:"QUIZ11_HTTP_TIMEOUT" env-default:"5s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"QUIZ11_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowOrigins []string      `yaml:"allow_origins" env:"QUIZ11_HTTP_ALLOW_ORIGINS" env-default:"http://localhost:5173"`
}

// Load reads configuration. A .env file in the working directory is
// applied first when present; path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ProviderConfig converts the LLM section into an llm.Config. When no
// provider is named, the standard vendor variables are probed instead.
func (l LLM) ProviderConfig() (llm.Config, error) {
	if l.Provider == "" {
		cfg, ok := llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, errors.New("no LLM provider configured: set QUIZ11_LLM_PROVIDER or GEMINI_API_KEY")
		}
		cfg.Timeout = l.Timeout
		return cfg, nil
	}

	cfg := llm.DefaultConfig()
	cfg.Provider = l.Provider
	cfg.Timeout = l.Timeout
	cfg.Gemini = llm.GeminiConfig{APIKey: l.GeminiAPIKey, Model: l.GeminiModel}
	cfg.Anthropic = llm.AnthropicConfig{APIKey: l.AnthropicAPIKey, Model: l.AnthropicModel}
	cfg.OpenAI = llm.OpenAIConfig{APIKey: l.OpenAIAPIKey, Model: l.OpenAIModel, BaseURL: l.OpenAIBaseURL}
	cfg.OpenRouter = llm.OpenRouterConfig{APIKey: l.OpenRouterAPIKey, Model: l.OpenRouterModel}
	return cfg, cfg.Validate()
}
