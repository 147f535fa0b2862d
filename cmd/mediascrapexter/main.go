// cmd/mediascrapexter/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/MediaScrapexter/internal/assist"
	"github.com/valpere/MediaScrapexter/internal/browser"
	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/drivers"
	"github.com/valpere/MediaScrapexter/internal/monitoring"
	"github.com/valpere/MediaScrapexter/internal/output"
	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/api"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "search":
		runSearch(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "suggest":
		runSuggest(os.Args[2:])
	case "sources":
		runSources(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "init", "template":
		runTemplate()
	case "version", "--version":
		printVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// buildService assembles the full service from a configuration file, or
// from defaults when the path is empty.
func buildService(configFile string, verbose bool) (*api.Service, *config.Config, *monitoring.MetricsManager, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, nil, nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		cfg = loaded
	}

	level := utils.InfoLevel
	if verbose {
		level = utils.DebugLevel
	}
	log := utils.NewLoggerWithLevel(level)

	registry, err := drivers.NewRegistry(cfg.Sources, log)
	if err != nil {
		return nil, nil, nil, err
	}

	fetcher := scraper.NewHTTPClient(scraper.ClientConfig{
		Timeout:    time.Duration(cfg.Request.TimeoutSeconds) * time.Second,
		UserAgents: cfg.Request.UserAgents,
		Headers:    cfg.Request.Headers,
		RateLimit:  cfg.Request.RateLimit,
		RateBurst:  cfg.Request.RateBurst,
	})

	var rendered scraper.Fetcher
	if cfg.Browser.Enabled {
		rendered = browser.NewRenderer(cfg.Browser, log)
	}

	var assistant *assist.Assistant
	if cfg.Assistant.Endpoint != "" {
		var journal *assist.Journal
		if cfg.Assistant.JournalPath != "" {
			journal, err = assist.OpenJournal(cfg.Assistant.JournalPath)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to open assist journal: %w", err)
			}
		}
		assistant, err = assist.NewAssistant(cfg.Assistant, journal, log)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var metrics *monitoring.MetricsManager
	if cfg.Server.MetricsEnabled {
		metrics = monitoring.NewMetricsManager("mediascrapexter")
	}

	service, err := api.NewService(api.ServiceOptions{
		Registry:  registry,
		Fetcher:   fetcher,
		Rendered:  rendered,
		Assistant: assistant,
		Metrics:   metrics,
		Logger:    log,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return service, cfg, metrics, nil
}

func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configFile := fs.String("config", "", "configuration file (optional)")
	source := fs.String("source", "", "source driver name")
	query := fs.String("query", "", "search query")
	contentType := fs.String("type", "videos", "content type: videos or gifs")
	page := fs.Int("page", 1, "result page")
	outFile := fs.String("output", "", "write results to file (.json, .csv or .xlsx)")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	fs.Parse(args)

	ct, err := types.ParseContentType(*contentType)
	if err != nil {
		fatal(err)
	}

	service, _, _, err := buildService(*configFile, *verbose)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := service.Search(ctx, api.SearchRequest{
		Source:      *source,
		Query:       *query,
		ContentType: ct,
		Page:        *page,
	})
	if err != nil {
		fatal(err)
	}

	if result.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", result.Warning)
	}

	if *outFile != "" {
		if err := output.WriteFile(*outFile, result.Items); err != nil {
			fatal(err)
		}
		fmt.Printf("%d items written to %s\n", len(result.Items), *outFile)
		return
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result.Items); err != nil {
		fatal(err)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", "", "configuration file (optional)")
	address := fs.String("address", "", "listen address (overrides configuration)")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	fs.Parse(args)

	service, cfg, metrics, err := buildService(*configFile, *verbose)
	if err != nil {
		fatal(err)
	}

	addr := cfg.Server.Address
	if *address != "" {
		addr = *address
	}

	level := utils.InfoLevel
	if *verbose {
		level = utils.DebugLevel
	}
	log := utils.NewLoggerWithLevel(level)

	server := api.NewServer(addr, service, metrics, log)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-done
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("shutdown failed: %v", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil {
		fatal(err)
	}
}

func runSuggest(args []string) {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configFile := fs.String("config", "", "configuration file with an assistant section")
	source := fs.String("source", "", "source driver name")
	contentType := fs.String("type", "videos", "content type: videos or gifs")
	query := fs.String("query", "", "sample query for the fresh page fetch")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	fs.Parse(args)

	ct, err := types.ParseContentType(*contentType)
	if err != nil {
		fatal(err)
	}

	service, _, _, err := buildService(*configFile, *verbose)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	suggestion, err := service.Suggest(ctx, *source, ct, *query)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Reasoning:\n%s\n\nSuggested parser:\n%s\n", suggestion.Reasoning, suggestion.SuggestedCode)
}

func runSources(args []string) {
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	configFile := fs.String("config", "", "configuration file (optional)")
	fs.Parse(args)

	service, _, _, err := buildService(*configFile, false)
	if err != nil {
		fatal(err)
	}

	for _, info := range service.Sources() {
		caps := ""
		if info.Videos {
			caps = "videos"
		}
		if info.Gifs {
			if caps != "" {
				caps += ","
			}
			caps += "gifs"
		}
		fmt.Printf("%-12s %-20s %-30s %s\n", info.Name, info.DisplayName, info.BaseURL, caps)
	}
}

func runValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: config file required")
		fmt.Fprintln(os.Stderr, "Usage: mediascrapexter validate <config.yaml>")
		os.Exit(1)
	}

	cfg, err := config.LoadFromFile(args[0])
	if err != nil {
		fatal(fmt.Errorf("failed to load configuration: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		fatal(fmt.Errorf("validation failed: %w", err))
	}
	if _, err := drivers.NewRegistry(cfg.Sources, utils.NopLogger{}); err != nil {
		fatal(fmt.Errorf("source registry validation failed: %w", err))
	}
	fmt.Printf("✓ Configuration file '%s' is valid\n", args[0])
}

func runTemplate() {
	data, err := yaml.Marshal(config.GenerateTemplate())
	if err != nil {
		fatal(fmt.Errorf("failed to marshal template: %w", err))
	}
	fmt.Print(string(data))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if utils.IsConfigurationError(err) {
		os.Exit(2)
	}
	os.Exit(1)
}

func printUsage() {
	fmt.Println("MediaScrapexter - Media Listing Aggregation Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mediascrapexter search -source <name> -query <text> [-type videos|gifs] [-page N] [-output file]")
	fmt.Println("  mediascrapexter serve [-config config.yaml] [-address :8080]")
	fmt.Println("  mediascrapexter suggest -config config.yaml -source <name> [-type videos|gifs]")
	fmt.Println("  mediascrapexter sources [-config config.yaml]")
	fmt.Println("  mediascrapexter validate <config.yaml>")
	fmt.Println("  mediascrapexter init")
	fmt.Println("  mediascrapexter version")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -verbose    Enable verbose output")
}

func printVersion() {
	fmt.Printf("MediaScrapexter %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
