package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	LLM         LLMConfig         `toml:"llm"`
	Ingest      IngestConfig      `toml:"ingest"`
	Auth        AuthConfig        `toml:"auth"`
	Discovery   DiscoveryConfig   `toml:"discovery"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger  BadgerConfig  `toml:"badger"`
	Uploads UploadsConfig `toml:"uploads"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// UploadsConfig controls where uploaded PDFs are kept on disk
type UploadsConfig struct {
	Dir         string `toml:"dir"`           // Directory for uploaded PDF files
	MaxSizeMB   int    `toml:"max_size_mb"`   // Maximum upload size in megabytes
	RetainFiles bool   `toml:"retain_files"`  // Keep original PDFs after ingestion
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGroq uses the Groq OpenAI-compatible API
	LLMProviderGroq LLMProvider = "groq"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// GroqConfig contains Groq API configuration (OpenAI-compatible chat completions)
type GroqConfig struct {
	APIKey      string  `toml:"api_key"`     // Groq API key
	Model       string  `toml:"model"`       // Chat model (default: "llama-3.1-8b-instant")
	BaseURL     string  `toml:"base_url"`    // API base URL
	Timeout     string  `toml:"timeout"`     // Request timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "2s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0)
}

// GeminiConfig contains Google Gemini API configuration (chat + embeddings)
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`         // Google Gemini API key
	Model          string  `toml:"model"`           // Chat model (default: "gemini-2.5-flash")
	EmbeddingModel string  `toml:"embedding_model"` // Embedding model (default: "gemini-embedding-001")
	EmbeddingDim   int     `toml:"embedding_dim"`   // Embedding output dimensionality (default: 768)
	Timeout        string  `toml:"timeout"`         // Request timeout as duration string (default: "2m")
	RateLimit      string  `toml:"rate_limit"`      // Minimum interval between requests (default: "4s" for 15 RPM)
	Temperature    float32 `toml:"temperature"`     // Completion temperature (default: 0)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Chat model (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Request timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0)
}

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider  `toml:"default_provider"` // "groq", "gemini" or "claude" (default: "groq")
	Groq            GroqConfig   `toml:"groq"`
	Gemini          GeminiConfig `toml:"gemini"`
	Claude          ClaudeConfig `toml:"claude"`
}

// DefaultModel returns the chat model of the configured default provider
func (c LLMConfig) DefaultModel() string {
	switch c.DefaultProvider {
	case LLMProviderGemini:
		return c.Gemini.Model
	case LLMProviderClaude:
		return c.Claude.Model
	default:
		return c.Groq.Model
	}
}

// IngestConfig controls chunking and retrieval behavior
type IngestConfig struct {
	ChunkSize    int `toml:"chunk_size" validate:"gt=0"`     // Characters per chunk (default: 800)
	ChunkOverlap int `toml:"chunk_overlap" validate:"gte=0"` // Overlap between adjacent chunks (default: 100)
	TopK         int `toml:"top_k" validate:"gt=0"`          // Chunks retrieved per question (default: 5)
	SummaryLimit int `toml:"summary_limit"`                  // Max characters summarized in a single LLM call (default: 20000)
}

// AuthConfig contains Google OAuth and session configuration
type AuthConfig struct {
	GoogleClientID     string `toml:"google_client_id"`
	GoogleClientSecret string `toml:"google_client_secret"`
	RedirectURL        string `toml:"redirect_url"` // OAuth callback URL
	SessionTTL         string `toml:"session_ttl"`  // Session lifetime as duration string (default: "24h")
	Disabled           bool   `toml:"disabled"`     // Disable auth entirely (development only)
}

// DiscoveryConfig contains related-paper search configuration
type DiscoveryConfig struct {
	ArxivBaseURL           string `toml:"arxiv_base_url"`            // arXiv Atom API endpoint
	SemanticScholarBaseURL string `toml:"semantic_scholar_base_url"` // Semantic Scholar Graph API endpoint
	MaxResults             int    `toml:"max_results"`               // Related papers returned (default: 7)
	RequestTimeout         string `toml:"request_timeout"`           // Per-API HTTP timeout (default: "15s")
	ArxivRateLimit         string `toml:"arxiv_rate_limit"`          // Minimum interval between arXiv requests (default: "3s")
	SemanticRateLimit      string `toml:"semantic_rate_limit"`       // Minimum interval between Semantic Scholar requests (default: "1s")
}

// MaintenanceConfig contains cron schedules for background cleanup
type MaintenanceConfig struct {
	Enabled       bool   `toml:"enabled"`
	SessionSweep  string `toml:"session_sweep"`  // Cron schedule for expired-session cleanup
	UploadCleanup string `toml:"upload_cleanup"` // Cron schedule for orphaned-upload cleanup
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in adhyayan.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
			Uploads: UploadsConfig{
				Dir:         "./data/uploads",
				MaxSizeMB:   25,
				RetainFiles: true,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGroq,
			Groq: GroqConfig{
				APIKey:      "", // User must provide API key
				Model:       "llama-3.1-8b-instant",
				BaseURL:     "https://api.groq.com/openai/v1",
				Timeout:     "2m",
				RateLimit:   "2s",
				Temperature: 0,
			},
			Gemini: GeminiConfig{
				APIKey:         "", // User must provide API key
				Model:          "gemini-2.5-flash",
				EmbeddingModel: "gemini-embedding-001",
				EmbeddingDim:   768,
				Timeout:        "2m",
				RateLimit:      "4s", // 15 RPM free tier
				Temperature:    0,
			},
			Claude: ClaudeConfig{
				APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
				Model:       "claude-haiku-3-5-20241022",
				MaxTokens:   4096,
				Timeout:     "2m",
				RateLimit:   "1s",
				Temperature: 0,
			},
		},
		Ingest: IngestConfig{
			ChunkSize:    800,
			ChunkOverlap: 100,
			TopK:         5,
			SummaryLimit: 20000,
		},
		Auth: AuthConfig{
			RedirectURL: "http://localhost:8080/auth/callback",
			SessionTTL:  "24h",
			Disabled:    false,
		},
		Discovery: DiscoveryConfig{
			ArxivBaseURL:           "http://export.arxiv.org/api/query",
			SemanticScholarBaseURL: "https://api.semanticscholar.org/graph/v1",
			MaxResults:             7,
			RequestTimeout:         "15s",
			ArxivRateLimit:         "3s",
			SemanticRateLimit:      "1s",
		},
		Maintenance: MaintenanceConfig{
			Enabled:       true,
			SessionSweep:  "0 */30 * * * *", // Every 30 minutes
			UploadCleanup: "0 0 */6 * * *",  // Every 6 hours
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files. Priority: CLI flags > environment variables > last config file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: ADHYAYAN_ENV, fallback: GO_ENV)
	if env := os.Getenv("ADHYAYAN_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ADHYAYAN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ADHYAYAN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("ADHYAYAN_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if uploadsDir := os.Getenv("ADHYAYAN_UPLOADS_DIR"); uploadsDir != "" {
		config.Storage.Uploads.Dir = uploadsDir
	}
	if maxSize := os.Getenv("ADHYAYAN_UPLOADS_MAX_SIZE_MB"); maxSize != "" {
		if ms, err := strconv.Atoi(maxSize); err == nil {
			config.Storage.Uploads.MaxSizeMB = ms
		}
	}

	// Logging configuration
	if level := os.Getenv("ADHYAYAN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("ADHYAYAN_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("ADHYAYAN_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("ADHYAYAN_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Groq configuration
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		config.LLM.Groq.APIKey = apiKey
	}
	if apiKey := os.Getenv("ADHYAYAN_GROQ_API_KEY"); apiKey != "" {
		config.LLM.Groq.APIKey = apiKey // ADHYAYAN_ prefix takes priority
	}
	if model := os.Getenv("ADHYAYAN_GROQ_MODEL"); model != "" {
		config.LLM.Groq.Model = model
	}
	if baseURL := os.Getenv("ADHYAYAN_GROQ_BASE_URL"); baseURL != "" {
		config.LLM.Groq.BaseURL = baseURL
	}
	if rateLimit := os.Getenv("ADHYAYAN_GROQ_RATE_LIMIT"); rateLimit != "" {
		config.LLM.Groq.RateLimit = rateLimit
	}

	// Gemini configuration
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.LLM.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("ADHYAYAN_GEMINI_API_KEY"); apiKey != "" {
		config.LLM.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("ADHYAYAN_GEMINI_MODEL"); model != "" {
		config.LLM.Gemini.Model = model
	}
	if embModel := os.Getenv("ADHYAYAN_GEMINI_EMBEDDING_MODEL"); embModel != "" {
		config.LLM.Gemini.EmbeddingModel = embModel
	}
	if embDim := os.Getenv("ADHYAYAN_GEMINI_EMBEDDING_DIM"); embDim != "" {
		if d, err := strconv.Atoi(embDim); err == nil {
			config.LLM.Gemini.EmbeddingDim = d
		}
	}
	if rateLimit := os.Getenv("ADHYAYAN_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.LLM.Gemini.RateLimit = rateLimit
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.LLM.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("ADHYAYAN_CLAUDE_API_KEY"); apiKey != "" {
		config.LLM.Claude.APIKey = apiKey
	}
	if model := os.Getenv("ADHYAYAN_CLAUDE_MODEL"); model != "" {
		config.LLM.Claude.Model = model
	}
	if maxTokens := os.Getenv("ADHYAYAN_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.LLM.Claude.MaxTokens = mt
		}
	}

	// Ingest configuration
	if chunkSize := os.Getenv("ADHYAYAN_INGEST_CHUNK_SIZE"); chunkSize != "" {
		if cs, err := strconv.Atoi(chunkSize); err == nil {
			config.Ingest.ChunkSize = cs
		}
	}
	if chunkOverlap := os.Getenv("ADHYAYAN_INGEST_CHUNK_OVERLAP"); chunkOverlap != "" {
		if co, err := strconv.Atoi(chunkOverlap); err == nil {
			config.Ingest.ChunkOverlap = co
		}
	}
	if topK := os.Getenv("ADHYAYAN_INGEST_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil {
			config.Ingest.TopK = k
		}
	}

	// Auth configuration
	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		config.Auth.GoogleClientID = clientID
	}
	if clientID := os.Getenv("ADHYAYAN_GOOGLE_CLIENT_ID"); clientID != "" {
		config.Auth.GoogleClientID = clientID
	}
	if clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET"); clientSecret != "" {
		config.Auth.GoogleClientSecret = clientSecret
	}
	if clientSecret := os.Getenv("ADHYAYAN_GOOGLE_CLIENT_SECRET"); clientSecret != "" {
		config.Auth.GoogleClientSecret = clientSecret
	}
	if redirectURL := os.Getenv("ADHYAYAN_AUTH_REDIRECT_URL"); redirectURL != "" {
		config.Auth.RedirectURL = redirectURL
	}
	if sessionTTL := os.Getenv("ADHYAYAN_AUTH_SESSION_TTL"); sessionTTL != "" {
		if _, err := time.ParseDuration(sessionTTL); err == nil {
			config.Auth.SessionTTL = sessionTTL
		}
	}
	if disabled := os.Getenv("ADHYAYAN_AUTH_DISABLED"); disabled != "" {
		if d, err := strconv.ParseBool(disabled); err == nil {
			config.Auth.Disabled = d
		}
	}

	// Discovery configuration
	if arxivURL := os.Getenv("ADHYAYAN_DISCOVERY_ARXIV_BASE_URL"); arxivURL != "" {
		config.Discovery.ArxivBaseURL = arxivURL
	}
	if ssURL := os.Getenv("ADHYAYAN_DISCOVERY_SEMANTIC_SCHOLAR_BASE_URL"); ssURL != "" {
		config.Discovery.SemanticScholarBaseURL = ssURL
	}
	if maxResults := os.Getenv("ADHYAYAN_DISCOVERY_MAX_RESULTS"); maxResults != "" {
		if mr, err := strconv.Atoi(maxResults); err == nil {
			config.Discovery.MaxResults = mr
		}
	}
}

// validateConfig checks structural constraints that would break the pipeline at runtime
func validateConfig(config *Config) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Ingest.ChunkOverlap >= config.Ingest.ChunkSize {
		return fmt.Errorf("invalid configuration: chunk_overlap (%d) must be less than chunk_size (%d)",
			config.Ingest.ChunkOverlap, config.Ingest.ChunkSize)
	}

	switch config.LLM.DefaultProvider {
	case LLMProviderGroq, LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("invalid configuration: unknown llm default_provider %q", config.LLM.DefaultProvider)
	}

	return nil
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// SessionTTLDuration parses the configured session TTL, falling back to 24h
func (c *Config) SessionTTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.Auth.SessionTTL); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// MaxUploadBytes returns the upload size cap in bytes
func (c *Config) MaxUploadBytes() int64 {
	if c.Storage.Uploads.MaxSizeMB <= 0 {
		return 25 * 1024 * 1024
	}
	return int64(c.Storage.Uploads.MaxSizeMB) * 1024 * 1024
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
