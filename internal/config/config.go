package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	FrontendURL   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	LLM LLMConfig

	// MaxUploadBytes caps the size of an uploaded PDF.
	MaxUploadBytes    int64
	ChunkSize         int
	MaxChunks         int
	GenerationWorkers int

	R2 R2Config

	DiscordWebhookURL string
}

// LLMConfig selects and configures the question/answer model backend.
type LLMConfig struct {
	// Provider is one of "gemini", "mistral", "openai", "anthropic", "mock".
	Provider string

	GeminiAPIKey    string
	GeminiModel     string
	MistralAPIKey   string
	MistralModel    string
	MistralBaseURL  string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string

	MaxRetries int
	Timeout    time.Duration
}

// R2Config holds Cloudflare R2 credentials. All fields must be set for uploads to be stored.
type R2Config struct {
	AccountID       string
	BucketName      string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// Enabled reports whether every R2 variable is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.BucketName != "" && c.AccessKeyID != "" &&
		c.SecretAccessKey != "" && c.PublicURL != ""
}

// Load reads configuration from the environment, providing sensible defaults.
func Load() (Config, error) {
	// Load .env file if it exists (useful for development)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		log.Println("WARN: .env file not found. Relying on system environment variables.")
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		FrontendURL:        strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			MistralAPIKey:   os.Getenv("MISTRAL_API_KEY"),
			MistralModel:    getEnv("MISTRAL_MODEL", "mistral-large-latest"),
			MistralBaseURL:  getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5"),
		},
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			PublicURL:       os.Getenv("R2_PUBLIC_URL"),
		},
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}

	var err error
	if cfg.LLM.MaxRetries, err = getInt("LLM_MAX_RETRIES", 3); err != nil {
		return Config{}, err
	}
	if cfg.LLM.Timeout, err = getDuration("LLM_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}
	maxUploadMB, err := getInt("MAX_UPLOAD_MB", 20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20
	if cfg.ChunkSize, err = getInt("CHUNK_SIZE", 2000); err != nil {
		return Config{}, err
	}
	if cfg.MaxChunks, err = getInt("MAX_CHUNKS", 8); err != nil {
		return Config{}, err
	}
	if cfg.GenerationWorkers, err = getInt("GENERATION_WORKERS", 4); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable must be set")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable must be set")
	}
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" || c.GoogleRedirectURL == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and GOOGLE_REDIRECT_URL environment variables must be set")
	}
	if c.ChunkSize < 200 {
		return fmt.Errorf("CHUNK_SIZE must be at least 200, got %d", c.ChunkSize)
	}
	if c.MaxChunks < 1 || c.GenerationWorkers < 1 {
		return fmt.Errorf("MAX_CHUNKS and GENERATION_WORKERS must be positive")
	}
	return c.LLM.Validate()
}

// Validate checks that the selected provider has its API key set.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "mistral":
		if c.MistralAPIKey == "" {
			return fmt.Errorf("MISTRAL_API_KEY is required for the mistral provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 90s: %w", key, err)
	}
	return d, nil
}
