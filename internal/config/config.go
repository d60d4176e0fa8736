package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the gateway, the narrator worker and the CLI.
type Config struct {
	// Server
	Port           int    `env:"PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	Env            string `env:"APP_ENV" envDefault:"development"`
	MaxBodySize    int64  `env:"MAX_BODY_SIZE" envDefault:"1048576"` // 1MB in bytes
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"180"`   // seconds; covers a full four-call story

	// LLM
	LLMProvider      string `env:"LLM_PROVIDER" envDefault:"anthropic"` // "anthropic" or "openai"
	LLMModel         string `env:"LLM_MODEL"`                           // provider default when empty
	LLMMaxTokens     int    `env:"LLM_MAX_TOKENS" envDefault:"1000"`
	AnthropicKey     string `env:"ANTHROPIC_API_KEY"`
	AnthropicURL     string `env:"ANTHROPIC_API_URL" envDefault:"https://api.anthropic.com/v1/messages"`
	AnthropicVersion string `env:"ANTHROPIC_VERSION" envDefault:"2023-06-01"`
	OpenAIKey        string `env:"OPENAI_API_KEY"`

	// Text to speech
	ElevenLabsKey string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsURL string `env:"ELEVENLABS_API_URL" envDefault:"https://api.elevenlabs.io/v1"`
	VoiceID       string `env:"TTS_VOICE_ID" envDefault:"RhfuhuYldx2ApeAGj3zH"`
	TTSModel      string `env:"TTS_MODEL" envDefault:"eleven_multilingual_v2"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "redis" or "none"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"86400"` // seconds

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"none"` // "postgres" or "none"
	DBURL         string `env:"DB_URL"`

	// Queue
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"none"` // "nats" or "none"
	QueueURL      string `env:"QUEUE_URL"`

	// CLI
	GatewayURL string `env:"GATEWAY_URL" envDefault:"http://localhost:8080"`
}

// Production reports whether verbose payload logging must be suppressed.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
