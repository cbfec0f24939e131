package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "curioquest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchConfig holds settings for the paper source adapter.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the number of matches requested and returned (default and upper bound 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ExtractorBackend identifies the PDF text extraction tool.
type ExtractorBackend string

const (
	ExtractorPlain      ExtractorBackend = "plain"
	ExtractorUnipdf     ExtractorBackend = "unipdf"
	ExtractorMarkitdown ExtractorBackend = "markitdown"
)

// ExtractionConfig holds settings for the document extractor.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the extraction tool: plain, unipdf, or markitdown.
	Backend ExtractorBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// TempDir is where per-download temporary files are created. Empty uses os.TempDir.
	TempDir string `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`

	// CacheDSN is the SQLite DSN of the extracted-text cache. Empty disables the cache.
	CacheDSN string `json:"cache_dsn" yaml:"cache_dsn" mapstructure:"cache_dsn"`

	// CacheTTL drops cached documents older than this at startup. Zero keeps everything.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// UnipdfLicenseKey is the metered license key required by the unipdf backend.
	UnipdfLicenseKey string `json:"unipdf_license_key,omitempty" yaml:"unipdf_license_key,omitempty" mapstructure:"unipdf_license_key"`
}

// ModelBackend identifies the service that hosts the text-to-text model.
type ModelBackend string

const (
	ModelHuggingFace ModelBackend = "huggingface"
	ModelClaude      ModelBackend = "claude"
)

// ModelConfig holds settings for the prompted text generator.
type ModelConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the model host: huggingface or claude.
	Backend ModelBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the model identifier (e.g. "google/flan-t5-large").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the backend's API root.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// RequestsPerMinute caps model calls. Zero means unlimited.
	RequestsPerMinute float64 `json:"requests_per_minute" yaml:"requests_per_minute" mapstructure:"requests_per_minute"`

	// Workers is the number of task queue workers running blocking calls (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// QueueDepth is the number of tasks that may wait for a worker (default 16).
	QueueDepth int `json:"queue_depth" yaml:"queue_depth" mapstructure:"queue_depth"`
}

// ServerConfig holds settings for the HTTP interaction surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// CookieName names the session cookie.
	CookieName string `json:"cookie_name" yaml:"cookie_name" mapstructure:"cookie_name"`

	// MaxUploadBytes bounds multipart uploads (default 64 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// LogConfig selects the log level (debug, info, warn, error) and format (json, text).
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Model      ModelConfig      `json:"model" yaml:"model" mapstructure:"model"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
