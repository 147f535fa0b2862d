// internal/config/types.go

// Package config provides the static configuration for the aggregation
// service: fetch behavior, per-site strategy selection, external driver
// definitions, and the selector-repair assistant backend. Configuration
// is loaded once at startup and validated fail-fast; there is no runtime
// mutation.
package config

// Config is the root configuration structure.
type Config struct {
	// Name identifies this configuration
	Name string `yaml:"name" json:"name"`

	// Version of the configuration format
	Version string `yaml:"version" json:"version"`

	// Server settings for the HTTP API
	Server ServerConfig `yaml:"server" json:"server"`

	// Request settings for the upstream fetch client
	Request RequestConfig `yaml:"request" json:"request"`

	// Browser settings for JS-rendered sources
	Browser BrowserConfig `yaml:"browser,omitempty" json:"browser,omitempty"`

	// Sources controls per-site strategy selection
	Sources SourcesConfig `yaml:"sources" json:"sources"`

	// Assistant configures the selector-repair suggestion backend
	Assistant AssistantConfig `yaml:"assistant,omitempty" json:"assistant,omitempty"`
}

// ServerConfig defines the HTTP API surface.
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address" json:"address"`

	// MetricsEnabled exposes /metrics when true
	MetricsEnabled bool `yaml:"metrics_enabled" json:"metrics_enabled"`
}

// RequestConfig defines upstream fetch behavior.
type RequestConfig struct {
	// TimeoutSeconds bounds one fetch, including body read
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`

	// RateLimit is requests per second against any one upstream
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`

	// RateBurst is the limiter burst size
	RateBurst int `yaml:"rate_burst" json:"rate_burst"`

	// UserAgents overrides the built-in rotation pool
	UserAgents []string `yaml:"user_agents,omitempty" json:"user_agents,omitempty"`

	// Headers are sent with every request
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// BrowserConfig defines the optional rendered-fetch path.
type BrowserConfig struct {
	// Enabled turns on chromedp rendering for drivers that need it
	Enabled bool `yaml:"enabled" json:"enabled"`

	// TimeoutSeconds bounds one rendered navigation
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`

	// WaitSelector, when set, is awaited before the DOM is captured
	WaitSelector string `yaml:"wait_selector,omitempty" json:"wait_selector,omitempty"`
}

// StrategyBuiltin and StrategyExternal are the valid per-site strategies.
const (
	StrategyBuiltin  = "builtin"
	StrategyExternal = "external"
)

// SourcesConfig maps site names to extraction strategies.
type SourcesConfig struct {
	// DefaultStrategy applies to sites without an explicit entry
	DefaultStrategy string `yaml:"default_strategy" json:"default_strategy"`

	// Strategies maps a lowercase site name to builtin or external
	Strategies map[string]string `yaml:"strategies,omitempty" json:"strategies,omitempty"`

	// External holds the definitions external-strategy sites resolve to
	External map[string]ExternalDriverConfig `yaml:"external,omitempty" json:"external,omitempty"`
}

// ExternalDriverConfig is a fully config-defined driver: URL templates and
// selector rules instead of compiled code. Validated at startup against
// the same capability rules as built-in drivers; an invalid definition is
// a startup-fatal configuration error, never a silently substituted stub.
type ExternalDriverConfig struct {
	DisplayName    string `yaml:"display_name" json:"display_name"`
	BaseURL        string `yaml:"base_url" json:"base_url"`
	FirstPageIndex int    `yaml:"first_page_index" json:"first_page_index"`

	// URLTemplates maps content type ("videos", "gifs") to a template
	// containing {query} and optionally {page}
	URLTemplates map[string]string `yaml:"url_templates" json:"url_templates"`

	// Rules maps content type to the listing selector rules
	Rules map[string]ExternalRules `yaml:"rules" json:"rules"`
}

// ExternalRules is the selector rule set for one content type.
type ExternalRules struct {
	// Containers is the ordered item-container selector fallback list
	Containers []string `yaml:"containers" json:"containers"`

	// Link selects the primary link inside a container
	Link string `yaml:"link" json:"link"`

	// IDAttrs are explicit identifier attributes on the container
	IDAttrs []string `yaml:"id_attrs,omitempty" json:"id_attrs,omitempty"`

	// Title, Thumbnail, Duration, Preview are ordered locator chains
	Title     []LocatorConfig `yaml:"title,omitempty" json:"title,omitempty"`
	Thumbnail []LocatorConfig `yaml:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Duration  []LocatorConfig `yaml:"duration,omitempty" json:"duration,omitempty"`
	Preview   []LocatorConfig `yaml:"preview,omitempty" json:"preview,omitempty"`

	// PlaceholderIDs / PlaceholderTitles enable documented synthetic
	// fallbacks for sites exposing no usable value
	PlaceholderIDs    bool `yaml:"placeholder_ids,omitempty" json:"placeholder_ids,omitempty"`
	PlaceholderTitles bool `yaml:"placeholder_titles,omitempty" json:"placeholder_titles,omitempty"`
}

// LocatorConfig is one selector/attribute candidate in a chain.
type LocatorConfig struct {
	Selector string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Attr     string `yaml:"attr,omitempty" json:"attr,omitempty"`
}

// AssistantConfig configures the generative selector-repair backend.
type AssistantConfig struct {
	// Endpoint is an OpenAI-compatible chat completions URL
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Model is the model identifier sent with each request
	Model string `yaml:"model" json:"model"`

	// APIKeyEnv names the environment variable holding the key; the key
	// itself never appears in configuration files
	APIKeyEnv string `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty"`

	// MaxSampleBytes caps the HTML excerpt embedded in the prompt
	MaxSampleBytes int `yaml:"max_sample_bytes,omitempty" json:"max_sample_bytes,omitempty"`

	// TimeoutSeconds bounds one suggestion call
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`

	// JournalPath is the SQLite file recording past suggestions for
	// human review; empty disables the journal
	JournalPath string `yaml:"journal_path,omitempty" json:"journal_path,omitempty"`
}
