// internal/drivers/registry_test.go
package drivers

import (
	"reflect"
	"testing"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

func TestDefaultRegistryNames(t *testing.T) {
	registry := NewDefaultRegistry(utils.NopLogger{})
	expected := []string{"cliphive", "gifgrid", "motionreel", "vidora"}
	if got := registry.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestRegistryResolve(t *testing.T) {
	registry := NewDefaultRegistry(utils.NopLogger{})

	driver, err := registry.Resolve("vidora")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.Name() != "vidora" {
		t.Errorf("unexpected driver %q", driver.Name())
	}
}

func TestRegistryResolveCaseInsensitive(t *testing.T) {
	registry := NewDefaultRegistry(utils.NopLogger{})
	for _, name := range []string{"Vidora", "VIDORA", " vidora "} {
		if _, err := registry.Resolve(name); err != nil {
			t.Errorf("Resolve(%q) failed: %v", name, err)
		}
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	registry := NewDefaultRegistry(utils.NopLogger{})
	_, err := registry.Resolve("nosuchsite")
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if utils.CodeOf(err) != utils.ErrCodeUnsupportedDriver {
		t.Errorf("expected UNSUPPORTED_DRIVER, got %s", utils.CodeOf(err))
	}
	if !utils.IsConfigurationError(err) {
		t.Error("unknown driver is a configuration error")
	}
}

func TestRegistryResolveForCapability(t *testing.T) {
	registry := NewDefaultRegistry(utils.NopLogger{})

	tests := []struct {
		source  string
		ct      types.ContentType
		wantErr bool
	}{
		{"vidora", types.ContentTypeVideos, false},
		{"vidora", types.ContentTypeGifs, true},
		{"cliphive", types.ContentTypeVideos, false},
		{"cliphive", types.ContentTypeGifs, false},
		{"gifgrid", types.ContentTypeGifs, false},
		{"gifgrid", types.ContentTypeVideos, true},
		{"motionreel", types.ContentTypeVideos, false},
		{"motionreel", types.ContentTypeGifs, true},
	}

	for _, tt := range tests {
		_, err := registry.ResolveFor(tt.source, tt.ct)
		if tt.wantErr {
			if utils.CodeOf(err) != utils.ErrCodeUnsupportedCapability {
				t.Errorf("%s/%s: expected UNSUPPORTED_CAPABILITY, got %v", tt.source, tt.ct, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s/%s: unexpected error: %v", tt.source, tt.ct, err)
		}
	}
}

func TestRegistryResolveReturnsFreshInstances(t *testing.T) {
	registry := NewDefaultRegistry(utils.NopLogger{})
	a, _ := registry.Resolve("vidora")
	b, _ := registry.Resolve("vidora")
	if a == b {
		t.Error("each resolution must hand out a fresh driver instance")
	}
}

func TestNewRegistryExternalStrategy(t *testing.T) {
	sources := config.SourcesConfig{
		External: map[string]config.ExternalDriverConfig{
			"extsite": {
				DisplayName:    "ExtSite",
				BaseURL:        "https://extsite.example",
				FirstPageIndex: 1,
				URLTemplates: map[string]string{
					"videos": "https://extsite.example/s?q={query}&p={page}",
				},
				Rules: map[string]config.ExternalRules{
					"videos": {
						Containers: []string{".item"},
						Link:       "a",
					},
				},
			},
		},
	}

	registry, err := NewRegistry(sources, utils.NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	driver, err := registry.ResolveFor("extsite", types.ContentTypeVideos)
	if err != nil {
		t.Fatalf("external driver should resolve: %v", err)
	}
	if driver.DisplayName() != "ExtSite" {
		t.Errorf("unexpected display name %q", driver.DisplayName())
	}
	if _, err := registry.ResolveFor("extsite", types.ContentTypeGifs); utils.CodeOf(err) != utils.ErrCodeUnsupportedCapability {
		t.Errorf("gifs should be unsupported for this definition, got %v", err)
	}
}

func TestNewRegistryStrategyValidation(t *testing.T) {
	tests := []struct {
		name    string
		sources config.SourcesConfig
	}{
		{
			name: "unknown strategy",
			sources: config.SourcesConfig{
				Strategies: map[string]string{"vidora": "plugin"},
			},
		},
		{
			name: "external strategy without definition",
			sources: config.SourcesConfig{
				Strategies: map[string]string{"vidora": config.StrategyExternal},
			},
		},
		{
			name: "builtin strategy without builtin driver",
			sources: config.SourcesConfig{
				Strategies: map[string]string{"nosuchsite": config.StrategyBuiltin},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.sources, utils.NopLogger{})
			if err == nil {
				t.Fatal("expected startup-fatal configuration error")
			}
			if utils.CodeOf(err) != utils.ErrCodeInvalidConfig {
				t.Errorf("expected INVALID_CONFIG, got %s", utils.CodeOf(err))
			}
		})
	}
}

func TestRegistrySources(t *testing.T) {
	registry := NewDefaultRegistry(utils.NopLogger{})
	infos := registry.Sources()
	if len(infos) != 4 {
		t.Fatalf("expected 4 sources, got %d", len(infos))
	}

	byName := make(map[string]SourceInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}

	if !byName["cliphive"].Videos || !byName["cliphive"].Gifs {
		t.Error("cliphive supports both content types")
	}
	if byName["vidora"].Gifs {
		t.Error("vidora must not report gif support")
	}
	if byName["gifgrid"].FirstPageIndex != 0 {
		t.Error("gifgrid is 0-indexed")
	}
	if byName["motionreel"].Videos != true {
		t.Error("motionreel supports videos")
	}
}

func TestParserSourceEmbedding(t *testing.T) {
	for _, name := range []string{"vidora", "cliphive", "gifgrid", "motionreel"} {
		source, err := ParserSource(name)
		if err != nil {
			t.Errorf("ParserSource(%q) failed: %v", name, err)
			continue
		}
		if source == "" {
			t.Errorf("ParserSource(%q) returned empty source", name)
		}
	}
	if _, err := ParserSource("nosuchsite"); err == nil {
		t.Error("unknown driver should have no parser source")
	}
}
