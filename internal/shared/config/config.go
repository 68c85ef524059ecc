package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"smart-ats/internal/llm"
)

const (
	defaultMaxUploadBytes = 10 << 20
	defaultHistoryLimit   = 20
	defaultAnalyzePerMin  = 30
	defaultAnalyzeBurst   = 5
)

// Config holds application configuration.
type Config struct {
	Port            string `validate:"required"`
	Env             string `validate:"oneof=dev local staging production"`
	LogLevel        string
	CORSAllowOrigin []string

	LLMProvider string `validate:"oneof=ollama openai gemini"`
	OllamaURL   string `validate:"omitempty,url"`
	LLMModel    string
	LLMTimeout  time.Duration `validate:"gt=0"`
	LLMRetry    bool
	// LLMEndpointHosts are the hosts HTTP callers may target with the endpoint field.
	LLMEndpointHosts []string
	OpenAIAPIKey     string `validate:"required_if=LLMProvider openai"`
	OpenAIBaseURL    string `validate:"omitempty,url"`
	GeminiAPIKey     string `validate:"required_if=LLMProvider gemini"`

	Skills []string

	DatabaseURL   string
	ArchiveStore  string `validate:"oneof=none local s3"`
	LocalStoreDir string `validate:"required_if=ArchiveStore local"`
	AWSRegion     string
	S3Bucket      string `validate:"required_if=ArchiveStore s3"`
	S3Prefix      string
	S3Endpoint    string `validate:"omitempty,url"`
	SSEKMSKeyID   string

	MaxUploadBytes int64 `validate:"gt=0"`
	HistoryLimit   int   `validate:"gt=0,lte=1000"`

	// AnalyzePerMinute limits analysis submissions per client IP; zero disables it.
	AnalyzePerMinute int `validate:"gte=0"`
	AnalyzeBurst     int `validate:"gte=0"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; existing env wins.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is not set in production, history is kept in memory")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		Env:              env,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LLMProvider:      normalizeProvider(getEnv("LLM_PROVIDER", "ollama")),
		OllamaURL:        getEnv("OLLAMA_URL", llm.DefaultEndpoint),
		LLMModel:         getEnv("LLM_MODEL", ""),
		LLMTimeout:       getDuration("LLM_TIMEOUT", llm.DefaultTimeout),
		LLMRetry:         getBool("LLM_RETRY", false),
		LLMEndpointHosts: splitAndTrim(getEnv("LLM_ENDPOINT_HOSTS", "")),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		Skills:           splitAndTrim(getEnv("ATS_SKILLS", "")),
		DatabaseURL:      dbURL,
		ArchiveStore:     normalizeStoreType(getEnv("ARCHIVE_STORE", "none")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		MaxUploadBytes:   int64(getInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		HistoryLimit:     getInt("HISTORY_LIMIT", defaultHistoryLimit),

		AnalyzePerMinute: getInt("RATE_LIMIT_ANALYZE_PER_MIN", defaultAnalyzePerMin),
		AnalyzeBurst:     getInt("RATE_LIMIT_ANALYZE_BURST", defaultAnalyzeBurst),
	}
}

// Validate checks the loaded values for consistency.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("skip env file %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %t", key, raw, def)
		return def
	}
	return v
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

// getDuration accepts Go durations ("90s", "2m") or a bare number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}
