// internal/drivers/registry.go
package drivers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// Factory produces a fresh driver instance per search invocation.
type Factory func(log utils.Logger) Driver

// builtinFactories is the static compile-time driver set. New built-in
// sites are added here, nowhere else.
func builtinFactories() map[string]Factory {
	return map[string]Factory{
		"vidora":     func(log utils.Logger) Driver { return NewVidora(log) },
		"cliphive":   func(log utils.Logger) Driver { return NewClipHive(log) },
		"gifgrid":    func(log utils.Logger) Driver { return NewGifGrid(log) },
		"motionreel": func(log utils.Logger) Driver { return NewMotionReel(log) },
	}
}

// Registry maps lowercase site names to driver factories. It is built
// once at startup from static configuration and is immutable afterwards;
// resolution hands out a fresh stateless driver per call, so concurrent
// searches against the same site never share state.
type Registry struct {
	factories map[string]Factory
	log       utils.Logger
}

// NewRegistry builds the registry from the sources configuration,
// resolving each site name to its strategy. Any inconsistency (unknown
// strategy, builtin strategy without a builtin driver, external strategy
// without a definition) is a startup-fatal configuration error.
func NewRegistry(sources config.SourcesConfig, log utils.Logger) (*Registry, error) {
	if log == nil {
		log = utils.NopLogger{}
	}
	builtins := builtinFactories()
	factories := make(map[string]Factory)

	names := make(map[string]bool)
	for name := range builtins {
		names[name] = true
	}
	for name := range sources.Strategies {
		names[name] = true
	}
	for name := range sources.External {
		names[name] = true
	}

	defaultStrategy := sources.DefaultStrategy
	if defaultStrategy == "" {
		defaultStrategy = config.StrategyBuiltin
	}

	for name := range names {
		strategy := sources.Strategies[name]
		if strategy == "" {
			if _, ok := builtins[name]; ok {
				strategy = defaultStrategy
			} else {
				// A bare external definition implies the external strategy.
				strategy = config.StrategyExternal
			}
		}

		switch strategy {
		case config.StrategyBuiltin:
			factory, ok := builtins[name]
			if !ok {
				return nil, utils.NewErrorf(utils.ErrCodeInvalidConfig,
					"site %q uses the builtin strategy but no builtin driver exists", name)
			}
			factories[name] = factory
		case config.StrategyExternal:
			def, ok := sources.External[name]
			if !ok {
				return nil, utils.NewErrorf(utils.ErrCodeInvalidConfig,
					"site %q uses the external strategy but no external definition exists", name)
			}
			siteName, siteDef := name, def
			factories[name] = func(log utils.Logger) Driver {
				return wrapExternal(newExternal(siteName, siteDef, log))
			}
		default:
			return nil, utils.NewErrorf(utils.ErrCodeInvalidConfig,
				"site %q has unknown strategy %q", name, strategy)
		}
	}

	return &Registry{factories: factories, log: log}, nil
}

// NewDefaultRegistry builds a registry with only the built-in drivers.
func NewDefaultRegistry(log utils.Logger) *Registry {
	registry, err := NewRegistry(config.SourcesConfig{}, log)
	if err != nil {
		// Unreachable: an empty sources config cannot be inconsistent.
		panic(fmt.Sprintf("default registry construction failed: %v", err))
	}
	return registry
}

// Resolve returns a fresh driver for the site name, case-insensitively.
func (r *Registry) Resolve(name string) (Driver, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	factory, ok := r.factories[key]
	if !ok {
		return nil, utils.NewErrorf(utils.ErrCodeUnsupportedDriver, "unknown driver %q", name).
			WithUserMessage(fmt.Sprintf("source %q is not supported", name)).
			WithContext("known", r.Names())
	}
	return factory(r.log), nil
}

// ResolveFor resolves a driver and verifies it supports the content type.
func (r *Registry) ResolveFor(name string, ct types.ContentType) (Driver, error) {
	driver, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	if !Supports(driver, ct) {
		return nil, utils.NewErrorf(utils.ErrCodeUnsupportedCapability,
			"driver %q does not support %s", driver.Name(), ct).
			WithUserMessage(fmt.Sprintf("source %s has no %s search", driver.DisplayName(), ct))
	}
	return driver, nil
}

// Names returns the sorted list of registered site names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SourceInfo describes one registered source for discovery endpoints.
type SourceInfo struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	BaseURL        string `json:"base_url"`
	Videos         bool   `json:"videos"`
	Gifs           bool   `json:"gifs"`
	FirstPageIndex int    `json:"first_page_index"`
}

// Sources returns discovery metadata for every registered driver.
func (r *Registry) Sources() []SourceInfo {
	infos := make([]SourceInfo, 0, len(r.factories))
	for _, name := range r.Names() {
		driver := r.factories[name](utils.NopLogger{})
		infos = append(infos, SourceInfo{
			Name:           driver.Name(),
			DisplayName:    driver.DisplayName(),
			BaseURL:        driver.BaseURL(),
			Videos:         Supports(driver, types.ContentTypeVideos),
			Gifs:           Supports(driver, types.ContentTypeGifs),
			FirstPageIndex: driver.FirstPageIndex(),
		})
	}
	return infos
}
