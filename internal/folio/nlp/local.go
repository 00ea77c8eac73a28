package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bdobrica/folio/internal/folio/extract"
	"github.com/bdobrica/folio/internal/folio/intent"
)

const (
	DefaultLocalURL        = "http://localhost:11434"
	DefaultLocalModel      = "llama3.2:3b"
	DefaultLocalTimeout    = 5 * time.Second
	localDefaultConfidence = 0.7
	localMaxTokens         = 256
	healthProbeTimeout     = 2 * time.Second
)

// LocalConfig configures the Ollama provider.
type LocalConfig struct {
	// BaseURL of the Ollama server. Defaults to DefaultLocalURL.
	BaseURL string
	// Model defaults to DefaultLocalModel.
	Model string
	// Timeout bounds one generate call. Defaults to DefaultLocalTimeout.
	Timeout time.Duration
}

// Local is the on-device model provider. It is always considered
// configured; reachability is checked on every Parse.
type Local struct {
	cfg    LocalConfig
	client *http.Client
	x      *extract.Extractor
}

// NewLocal returns an Ollama-backed provider that degrades to x.
func NewLocal(cfg LocalConfig, x *extract.Extractor) *Local {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultLocalURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultLocalModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLocalTimeout
	}
	if x == nil {
		x = extract.New(nil)
	}
	return &Local{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		x:      x,
	}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerate struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format"`
	Options ollamaOptions `json:"options"`
}

// Health probes GET /api/tags.
func (l *Local) Health(ctx context.Context) bool {
	probeTimeout := healthProbeTimeout
	if l.cfg.Timeout < probeTimeout {
		probeTimeout = l.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Parse returns ErrUnavailable when the server does not answer the health
// probe. Any later failure degrades to the extractor.
func (l *Local) Parse(ctx context.Context, text string, dctx DialogueContext) (*intent.ParseResult, error) {
	if !l.Health(ctx) {
		return nil, fmt.Errorf("%w: ollama at %s", ErrUnavailable, l.cfg.BaseURL)
	}
	res, err := l.generate(ctx, text, dctx)
	if err != nil {
		slog.Warn("nlp: local provider fallback", "session_id", dctx.SessionID, "err", err)
		return fallback(l.x, text, err), nil
	}
	return res, nil
}

func (l *Local) generate(ctx context.Context, text string, dctx DialogueContext) (*intent.ParseResult, error) {
	body := ollamaGenerate{
		Model:  l.cfg.Model,
		Prompt: text,
		System: SystemPrompt(dctx),
		Stream: false,
		Format: "json",
		Options: ollamaOptions{
			Temperature: 0.1,
			NumPredict:  localMaxTokens,
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("nlp: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.BaseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("nlp: create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nlp: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nlp: read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nlp: ollama error (HTTP %d): %s", resp.StatusCode, gjson.GetBytes(respBody, "error").String())
	}

	slog.Debug("nlp: local response",
		"session_id", dctx.SessionID,
		"model", l.cfg.Model,
		"eval_count", gjson.GetBytes(respBody, "eval_count").Int())

	return decodeModelOutput(gjson.GetBytes(respBody, "response").String(), text, localDefaultConfidence, intent.SourceLocal)
}
