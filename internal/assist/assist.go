// internal/assist/assist.go

// Package assist implements the selector-repair assistant: given a broken
// driver's parser source and a fresh HTML sample, it asks a generative
// backend for a reasoned replacement. Suggestions are advisory only: the
// system never hot-swaps extraction logic at runtime; a human reviews and
// redeploys.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/drivers"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// Suggestion is the assistant's structured answer.
type Suggestion struct {
	DriverName    string    `json:"driver_name"`
	ContentType   string    `json:"content_type"`
	Reasoning     string    `json:"reasoning"`
	SuggestedCode string    `json:"suggested_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// Assistant talks to an OpenAI-compatible chat completions backend. One
// call is one stateless request: on any network or model failure the call
// fails with a descriptive error and no partial state is retained.
type Assistant struct {
	endpoint   string
	model      string
	apiKey     string
	maxSample  int
	httpClient *http.Client
	journal    *Journal
	log        utils.Logger
}

// NewAssistant builds an assistant from configuration. A nil journal is
// valid and simply disables the suggestion history.
func NewAssistant(cfg config.AssistantConfig, journal *Journal, log utils.Logger) (*Assistant, error) {
	if cfg.Endpoint == "" {
		return nil, utils.NewError(utils.ErrCodeInvalidConfig, "assistant endpoint is not configured")
	}
	if log == nil {
		log = utils.NopLogger{}
	}
	apiKey := ""
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxSample := cfg.MaxSampleBytes
	if maxSample == 0 {
		maxSample = 48 * 1024
	}
	return &Assistant{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     apiKey,
		maxSample:  maxSample,
		httpClient: &http.Client{Timeout: timeout},
		journal:    journal,
		log:        log,
	}, nil
}

const systemPrompt = `You are a web-scraping maintenance assistant. You repair Go parser
functions that extract media listings with goquery CSS selectors. Answer
with a single JSON object: {"reasoning": "...", "suggested_code": "..."}.
suggested_code must be a complete replacement for the parser function,
keeping its signature and the existing helper calls. Never invent fields
the MediaItem schema does not have.`

// Suggest asks the backend for a replacement parser for the named driver,
// based on a fresh HTML sample from the site.
func (a *Assistant) Suggest(ctx context.Context, driverName string, ct types.ContentType, htmlSample string) (*Suggestion, error) {
	if strings.TrimSpace(htmlSample) == "" {
		return nil, utils.NewError(utils.ErrCodeAssistFailed, "html sample cannot be empty")
	}
	if !ct.IsValid() {
		return nil, utils.NewErrorf(utils.ErrCodeAssistFailed, "invalid content type %q", ct)
	}

	source, err := drivers.ParserSource(driverName)
	if err != nil {
		return nil, utils.NewErrorf(utils.ErrCodeAssistFailed,
			"driver %q has no retrievable parser source", driverName).WithCause(err)
	}

	prompt := a.buildPrompt(driverName, ct, source, htmlSample)

	raw, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	suggestion, err := parseSuggestion(raw)
	if err != nil {
		return nil, err
	}
	suggestion.DriverName = strings.ToLower(driverName)
	suggestion.ContentType = ct.String()
	suggestion.CreatedAt = time.Now().UTC()

	if a.journal != nil {
		if err := a.journal.Record(ctx, suggestion, len(htmlSample)); err != nil {
			// Journal failures must not lose the suggestion itself.
			a.log.Warnf("failed to journal suggestion for %s: %v", driverName, err)
		}
	}
	return suggestion, nil
}

func (a *Assistant) buildPrompt(driverName string, ct types.ContentType, source, htmlSample string) string {
	sample := htmlSample
	if len(sample) > a.maxSample {
		sample = sample[:a.maxSample]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "The %s parser for driver %q stopped matching the site's markup.\n\n", ct, driverName)
	sb.WriteString("Current parser source:\n```go\n")
	sb.WriteString(source)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Fresh HTML sample from the listing page (truncated):\n```html\n")
	sb.WriteString(sample)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Propose updated selector rules. Respond with the JSON object only.")
	return sb.String()
}

// chat completions request/response shapes, OpenAI wire format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", utils.NewError(utils.ErrCodeAssistFailed, "failed to encode request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", utils.NewError(utils.ErrCodeAssistFailed, "failed to create request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", utils.NewError(utils.ErrCodeAssistFailed, "suggestion backend unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", utils.NewError(utils.ErrCodeAssistFailed, "failed to read backend response").WithCause(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", utils.NewErrorf(utils.ErrCodeAssistFailed, "backend returned HTTP %d", resp.StatusCode).
			WithContext("body", truncate(string(body), 512))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", utils.NewError(utils.ErrCodeAssistFailed, "backend response is not valid JSON").WithCause(err)
	}
	if parsed.Error != nil {
		return "", utils.NewErrorf(utils.ErrCodeAssistFailed, "backend error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", utils.NewError(utils.ErrCodeAssistFailed, "backend returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseSuggestion decodes the model answer, tolerating markdown fences
// around the JSON object.
func parseSuggestion(raw string) (*Suggestion, error) {
	cleaned := stripFences(raw)

	var out struct {
		Reasoning     string `json:"reasoning"`
		SuggestedCode string `json:"suggested_code"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, utils.NewError(utils.ErrCodeAssistFailed, "model answer is not the expected JSON object").
			WithCause(err).
			WithContext("answer", truncate(cleaned, 512))
	}
	if strings.TrimSpace(out.SuggestedCode) == "" {
		return nil, utils.NewError(utils.ErrCodeAssistFailed, "model answer contains no suggested code")
	}
	return &Suggestion{
		Reasoning:     strings.TrimSpace(out.Reasoning),
		SuggestedCode: out.SuggestedCode,
	}, nil
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
