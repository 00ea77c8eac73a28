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

	"github.com/bdobrica/folio/common/redact"
	"github.com/bdobrica/folio/internal/folio/extract"
	"github.com/bdobrica/folio/internal/folio/intent"
)

const (
	defaultCloudBase       = "https://api.anthropic.com/v1"
	DefaultCloudModel      = "claude-sonnet-4-20250514"
	DefaultCloudTimeout    = 10 * time.Second
	anthropicVersion       = "2023-06-01"
	cloudMaxTokens         = 512
	cloudDefaultConfidence = 0.8
)

// CloudConfig configures the Anthropic Messages API provider.
type CloudConfig struct {
	// APIKey is sent as the x-api-key header. Required.
	APIKey string

	// BaseURL overrides the API endpoint. Defaults to
	// https://api.anthropic.com/v1.
	BaseURL string

	// Model defaults to DefaultCloudModel.
	Model string

	// Timeout bounds one request. Defaults to DefaultCloudTimeout.
	Timeout time.Duration
}

// Cloud is the hosted-model provider.
type Cloud struct {
	cfg    CloudConfig
	client *http.Client
	x      *extract.Extractor
}

// NewCloud returns a cloud provider that degrades to x. It fails with
// ErrMissingCredentials when cfg.APIKey is empty.
func NewCloud(cfg CloudConfig, x *extract.Extractor) (*Cloud, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCloudBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultCloudModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCloudTimeout
	}
	if x == nil {
		x = extract.New(nil)
	}
	return &Cloud{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		x:      x,
	}, nil
}

// --- minimal Messages API wire types ---

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

// Health reports whether an API key is configured. It makes no request.
func (c *Cloud) Health(context.Context) bool {
	return c.cfg.APIKey != ""
}

// Parse asks the model to interpret text. Only HTTP 429 is returned as an
// error (ErrRateLimit); everything else degrades to the extractor.
func (c *Cloud) Parse(ctx context.Context, text string, dctx DialogueContext) (*intent.ParseResult, error) {
	res, err := c.call(ctx, text, dctx)
	if err == nil {
		return res, nil
	}
	if isRateLimit(err) {
		return nil, err
	}
	reason := redact.String(err.Error(), c.cfg.APIKey)
	slog.Warn("nlp: cloud provider fallback", "session_id", dctx.SessionID, "err", reason)
	res = fallback(c.x, text, err)
	res.FallbackReason = reason
	return res, nil
}

func (c *Cloud) call(ctx context.Context, text string, dctx DialogueContext) (*intent.ParseResult, error) {
	var msgs []anthropicMessage
	for _, h := range dctx.History {
		if h.Role != "user" && h.Role != "assistant" {
			continue
		}
		// The API wants the first message from the user.
		if len(msgs) == 0 && h.Role != "user" {
			continue
		}
		msgs = appendTurn(msgs, h.Role, h.Content)
	}
	msgs = appendTurn(msgs, "user", text)

	body := anthropicRequest{
		Model:       c.cfg.Model,
		MaxTokens:   cloudMaxTokens,
		System:      SystemPrompt(dctx),
		Messages:    msgs,
		Temperature: 0.1,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("nlp: marshal request: %w", err)
	}

	started := time.Now()
	respBody, err := c.post(ctx, data)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	gjson.GetBytes(respBody, "content").ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").String() == "text" {
			content.WriteString(block.Get("text").String())
		}
		return true
	})

	slog.Debug("nlp: cloud response",
		"session_id", dctx.SessionID,
		"model", gjson.GetBytes(respBody, "model").String(),
		"input_tokens", gjson.GetBytes(respBody, "usage.input_tokens").Int(),
		"output_tokens", gjson.GetBytes(respBody, "usage.output_tokens").Int(),
		"latency_ms", time.Since(started).Milliseconds())

	return decodeModelOutput(content.String(), text, cloudDefaultConfidence, intent.SourceCloud)
}

// post sends one Messages request. A failed call is never repeated; the
// caller degrades to the extractor instead.
func (c *Cloud) post(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/messages", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("nlp: create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nlp: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nlp: read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w (HTTP 429)", ErrRateLimit)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "error.message").String()
		return nil, fmt.Errorf("nlp: API error (HTTP %d): %s", resp.StatusCode, msg)
	}
	return body, nil
}

// appendTurn keeps roles alternating by folding consecutive turns from the
// same role into one message.
func appendTurn(msgs []anthropicMessage, role, content string) []anthropicMessage {
	if n := len(msgs); n > 0 && msgs[n-1].Role == role {
		msgs[n-1].Content += "\n" + content
		return msgs
	}
	return append(msgs, anthropicMessage{Role: role, Content: content})
}
