// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := expandEnvironmentVariables(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}
	return LoadFromBytes(data)
}

// Default returns a configuration usable without any file on disk.
func Default() *Config {
	cfg := &Config{
		Name:    "mediascrapexter",
		Version: "1",
	}
	applyDefaults(cfg)
	return cfg
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvironmentVariables substitutes ${VAR} references with their
// environment values; unset variables expand to the empty string.
func expandEnvironmentVariables(data string) string {
	return envVarPattern.ReplaceAllStringFunc(data, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

// applyDefaults fills in zero values with working defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Request.TimeoutSeconds == 0 {
		cfg.Request.TimeoutSeconds = 30
	}
	if cfg.Request.RateLimit == 0 {
		cfg.Request.RateLimit = 2.0
	}
	if cfg.Request.RateBurst == 0 {
		cfg.Request.RateBurst = 4
	}
	if cfg.Browser.TimeoutSeconds == 0 {
		cfg.Browser.TimeoutSeconds = 45
	}
	if cfg.Sources.DefaultStrategy == "" {
		cfg.Sources.DefaultStrategy = StrategyBuiltin
	}
	if cfg.Assistant.MaxSampleBytes == 0 {
		cfg.Assistant.MaxSampleBytes = 48 * 1024
	}
	if cfg.Assistant.TimeoutSeconds == 0 {
		cfg.Assistant.TimeoutSeconds = 60
	}
}

// Validate checks the configuration for fatal mistakes. Strategy and
// external-driver validation is deliberately strict: a typo here must
// fail startup, not degrade into a stub at call time.
func (c *Config) Validate() error {
	if c.Request.TimeoutSeconds < 0 {
		return fmt.Errorf("request.timeout_seconds must be non-negative, got %d", c.Request.TimeoutSeconds)
	}
	if c.Request.RateLimit < 0 {
		return fmt.Errorf("request.rate_limit must be non-negative, got %v", c.Request.RateLimit)
	}
	if c.Request.RateBurst < 0 {
		return fmt.Errorf("request.rate_burst must be non-negative, got %d", c.Request.RateBurst)
	}

	if err := validateStrategy(c.Sources.DefaultStrategy); err != nil {
		return fmt.Errorf("sources.default_strategy: %v", err)
	}
	for name, strategy := range c.Sources.Strategies {
		if name != strings.ToLower(name) {
			return fmt.Errorf("sources.strategies: site name %q must be lowercase", name)
		}
		if err := validateStrategy(strategy); err != nil {
			return fmt.Errorf("sources.strategies[%s]: %v", name, err)
		}
		if strategy == StrategyExternal {
			if _, ok := c.Sources.External[name]; !ok {
				return fmt.Errorf("sources.strategies[%s]: external strategy selected but no external definition exists", name)
			}
		}
	}
	for name, ext := range c.Sources.External {
		if err := ext.Validate(); err != nil {
			return fmt.Errorf("sources.external[%s]: %v", name, err)
		}
	}

	if c.Assistant.Endpoint != "" && c.Assistant.Model == "" {
		return fmt.Errorf("assistant.model is required when assistant.endpoint is set")
	}
	return nil
}

func validateStrategy(strategy string) error {
	switch strategy {
	case StrategyBuiltin, StrategyExternal:
		return nil
	}
	return fmt.Errorf("unknown strategy %q (expected %s or %s)", strategy, StrategyBuiltin, StrategyExternal)
}

// Validate checks an external driver definition.
func (e *ExternalDriverConfig) Validate() error {
	if e.DisplayName == "" {
		return fmt.Errorf("display_name is required")
	}
	if !strings.HasPrefix(e.BaseURL, "http://") && !strings.HasPrefix(e.BaseURL, "https://") {
		return fmt.Errorf("base_url must be absolute, got %q", e.BaseURL)
	}
	if e.FirstPageIndex < 0 {
		return fmt.Errorf("first_page_index must be non-negative, got %d", e.FirstPageIndex)
	}
	if len(e.URLTemplates) == 0 {
		return fmt.Errorf("at least one url_templates entry is required")
	}
	for ct, tmpl := range e.URLTemplates {
		if ct != "videos" && ct != "gifs" {
			return fmt.Errorf("url_templates: unknown content type %q", ct)
		}
		if !strings.Contains(tmpl, "{query}") {
			return fmt.Errorf("url_templates[%s]: template must contain {query}", ct)
		}
		rules, ok := e.Rules[ct]
		if !ok {
			return fmt.Errorf("rules[%s]: missing rules for templated content type", ct)
		}
		if len(rules.Containers) == 0 {
			return fmt.Errorf("rules[%s]: at least one container selector is required", ct)
		}
		if rules.Link == "" {
			return fmt.Errorf("rules[%s]: link selector is required", ct)
		}
	}
	for ct := range e.Rules {
		if _, ok := e.URLTemplates[ct]; !ok {
			return fmt.Errorf("rules[%s]: rules defined without a matching url template", ct)
		}
	}
	return nil
}

// GenerateTemplate returns a starter configuration for the init command.
func GenerateTemplate() *Config {
	cfg := Default()
	cfg.Sources.Strategies = map[string]string{
		"vidora":     StrategyBuiltin,
		"cliphive":   StrategyBuiltin,
		"gifgrid":    StrategyBuiltin,
		"motionreel": StrategyBuiltin,
	}
	cfg.Sources.External = map[string]ExternalDriverConfig{
		"examplesite": {
			DisplayName:    "ExampleSite",
			BaseURL:        "https://example.com",
			FirstPageIndex: 1,
			URLTemplates: map[string]string{
				"videos": "https://example.com/search?q={query}&page={page}",
			},
			Rules: map[string]ExternalRules{
				"videos": {
					Containers: []string{".results .item"},
					Link:       "a.item-link",
					IDAttrs:    []string{"data-id"},
					Title:      []LocatorConfig{{Selector: "a.item-link", Attr: "title"}, {Selector: "a.item-link"}},
					Thumbnail:  []LocatorConfig{{Selector: "img", Attr: "data-src"}, {Selector: "img", Attr: "src"}},
					Duration:   []LocatorConfig{{Selector: ".duration"}},
					Preview:    []LocatorConfig{{Selector: "img", Attr: "data-preview"}},
				},
			},
		},
	}
	cfg.Assistant = AssistantConfig{
		Endpoint:       "https://api.openai.com/v1/chat/completions",
		Model:          "gpt-4o-mini",
		APIKeyEnv:      "MEDIASCRAPEXTER_API_KEY",
		MaxSampleBytes: 48 * 1024,
		TimeoutSeconds: 60,
	}
	return cfg
}
