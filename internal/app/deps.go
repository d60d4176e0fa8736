package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"verhalen-machine/internal/cache"
	"verhalen-machine/internal/config"
	"verhalen-machine/internal/llm"
	"verhalen-machine/internal/logger"
	"verhalen-machine/internal/queue"
	"verhalen-machine/internal/store"
	"verhalen-machine/internal/tts"
)

// Deps bundles common runtime dependencies for services.
// Store and Queue are nil when their provider is "none".
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	LLM    llm.Client
	TTS    tts.Synthesizer
	Cache  cache.Cache
	Store  store.Store
	Queue  queue.Queue
}

// Build loads env, config, and shared components for the gateway.
func Build() (Deps, error) {
	envErr := godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Debug("no .env file loaded", "err", envErr)
	}

	c := buildCache(cfg, log)
	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	q, err := buildQueue(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return Deps{
		Config: cfg,
		Log:    log,
		LLM:    llmClient,
		TTS:    buildTTS(cfg, log, c),
		Cache:  c,
		Store:  st,
		Queue:  q,
	}, nil
}

// Close releases the connections Build opened. Store and Queue are closed
// only when their implementation holds one.
func (d Deps) Close() {
	closers := []struct {
		name string
		c    any
	}{{"cache", d.Cache}, {"store", d.Store}, {"queue", d.Queue}}
	for _, item := range closers {
		c, ok := item.c.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			d.Log.Warn("close failed", "component", item.name, "err", err)
		}
	}
}

// BuildNarrator is Build for the narration worker, which cannot run without a store and a queue.
func BuildNarrator() (Deps, error) {
	deps, err := Build()
	if err != nil {
		return Deps{}, err
	}
	if deps.Store == nil {
		return Deps{}, errors.New("narrator requires STORE_PROVIDER=postgres")
	}
	if deps.Queue == nil {
		return Deps{}, errors.New("narrator requires QUEUE_PROVIDER=nats")
	}
	return deps, nil
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "none", "":
		log.Info("story archive disabled")
		return nil, nil
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: postgres, none)", cfg.StoreProvider)
	}
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	switch cfg.QueueProvider {
	case "none", "":
		log.Info("narration queue disabled")
		return nil, nil
	case "nats":
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc), nil
	default:
		return nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid options: nats, none)", cfg.QueueProvider)
	}
}

// buildCache never fails: an unreachable Redis degrades to the no-op cache.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	if cfg.CacheProvider != "redis" {
		return cache.NewNoOpCache()
	}
	c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Warn("redis unavailable, audio caching disabled", "addr", cfg.RedisAddr, "err", err)
		return cache.NewNoOpCache()
	}
	log.Info("using Redis audio cache", "addr", cfg.RedisAddr)
	return c
}

// buildLLM logs missing credentials instead of failing; the upstream rejects
// unauthenticated calls and the gateway relays that.
func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "anthropic", "":
		if cfg.AnthropicKey == "" {
			log.Warn("ANTHROPIC_API_KEY is not set")
		}
		client := llm.NewAnthropicClient(llm.AnthropicOptions{
			APIKey:    cfg.AnthropicKey,
			URL:       cfg.AnthropicURL,
			Version:   cfg.AnthropicVersion,
			Model:     cfg.LLMModel,
			MaxTokens: cfg.LLMMaxTokens,
		})
		log.Info("using Anthropic LLM client", "model", client.Model(), "max_tokens", cfg.LLMMaxTokens)
		return client, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY is not set")
		}
		client := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel), cfg.LLMMaxTokens, "")
		log.Info("using OpenAI LLM client", "model", client.Model(), "max_tokens", cfg.LLMMaxTokens)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: anthropic, openai)", cfg.LLMProvider)
	}
}

func buildTTS(cfg config.Config, log *slog.Logger, c cache.Cache) tts.Synthesizer {
	if cfg.ElevenLabsKey == "" {
		log.Warn("ELEVENLABS_API_KEY is not set")
	}
	client := tts.NewElevenLabsClient(cfg.ElevenLabsKey, cfg.ElevenLabsURL, cfg.VoiceID, cfg.TTSModel)
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	return tts.NewCachedSynthesizer(client, c, ttl, client.CacheKeyParts(), log)
}
