package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/entity"
)

// Config holds every setting the server and the indexer read at startup.
type Config struct {
	Port          string
	PublicBaseURL string
	GeneratedDir  string
	DatabasePath  string

	GoogleAPIKey        string
	GoogleCloudProject  string
	GoogleCloudLocation string
	PrimaryImageModel   string
	FallbackImageModel  string
	EmbeddingModel      string
	EmbeddingDim        uint64
	DescriptionModel    string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	AgentMaxSteps int

	RedisAddr          string
	HistoryTTL         time.Duration
	HistoryMaxSessions int

	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	HistoryWindow       int
	RenovateMaxParallel int
	ImageFetchTimeout   time.Duration
	GenerationTimeout   time.Duration
	GalleryPolicy       entity.GalleryPolicy

	LogLevel  string
	LogFormat string
}

// Load reads ENV_FILE (default .env.dev) into the environment, then parses it.
// A missing env file is not an error.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env.dev")
	if err := godotenv.Load(envFile); err != nil {
		log.Warn().Str("component", "CONFIG").Str("file", envFile).Msg("env file not found, using system environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8000"), "/"),
		GeneratedDir:  getEnv("GENERATED_DIR", "generated_images"),
		DatabasePath:  getEnv("DATABASE_PATH", "immobiliare.db"),

		GoogleAPIKey:        os.Getenv("GOOGLE_API_KEY"),
		GoogleCloudProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleCloudLocation: os.Getenv("GOOGLE_CLOUD_LOCATION"),
		PrimaryImageModel:   getEnv("PRIMARY_IMAGE_MODEL", "gemini-3-pro-image-preview"),
		FallbackImageModel:  getEnv("FALLBACK_IMAGE_MODEL", "gemini-2.5-pro"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		EmbeddingDim:        uint64(p.int("EMBEDDING_DIM", 768)),
		DescriptionModel:    getEnv("DESCRIPTION_MODEL", "gemini-2.5-flash"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-5-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		AgentMaxSteps: p.int("AGENT_MAX_STEPS", 10),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		HistoryTTL:         p.duration("HISTORY_TTL", 24*time.Hour),
		HistoryMaxSessions: p.int("HISTORY_MAX_SESSIONS", 10000),

		QdrantHost:       os.Getenv("QDRANT_HOST"),
		QdrantPort:       p.int("QDRANT_PORT", 6334),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "properties"),

		HistoryWindow:       p.int("HISTORY_WINDOW", 6),
		RenovateMaxParallel: p.int("RENOVATE_MAX_PARALLEL", 4),
		ImageFetchTimeout:   p.duration("IMAGE_FETCH_TIMEOUT", 10*time.Second),
		GenerationTimeout:   p.duration("GENERATION_TIMEOUT", 120*time.Second),
		GalleryPolicy:       entity.GalleryPolicy(strings.ToLower(getEnv("GALLERY_POLICY", string(entity.GalleryCompact)))),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.GalleryPolicy {
	case entity.GalleryCompact, entity.GalleryPlaceholder:
	default:
		return fmt.Errorf("GALLERY_POLICY must be %q or %q, got %q", entity.GalleryCompact, entity.GalleryPlaceholder, c.GalleryPolicy)
	}
	if c.RenovateMaxParallel < 1 || c.RenovateMaxParallel > 4 {
		return fmt.Errorf("RENOVATE_MAX_PARALLEL must be between 1 and 4, got %d", c.RenovateMaxParallel)
	}
	if c.HistoryWindow < 1 {
		return fmt.Errorf("HISTORY_WINDOW must be positive, got %d", c.HistoryWindow)
	}
	return nil
}

// VectorSearchEnabled reports whether a Qdrant host is configured.
func (c *Config) VectorSearchEnabled() bool { return c.QdrantHost != "" }

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("%s: %w", key, err)
		}
		return fallback
	}
	return v
}

// duration accepts Go durations ("90s") or plain seconds ("90").
func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("%s: %w", key, err)
		}
		return fallback
	}
	return d
}
