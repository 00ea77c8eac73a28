package nlp_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/nlp"
)

// buildMessagesResponse builds a minimal Messages API body whose single text
// block holds content.
func buildMessagesResponse(content string) []byte {
	data, _ := json.Marshal(map[string]any{
		"id":    "msg_test",
		"model": "claude-test",
		"content": []map[string]string{
			{"type": "text", "text": content},
		},
		"usage": map[string]int{"input_tokens": 10, "output_tokens": 5},
	})
	return data
}

func newCloud(t *testing.T, url string) *nlp.Cloud {
	t.Helper()
	p, err := nlp.NewCloud(nlp.CloudConfig{APIKey: "sk-test-key", BaseURL: url}, nil)
	if err != nil {
		t.Fatalf("NewCloud: %v", err)
	}
	return p
}

func TestCloud_SuccessfulParse(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "sk-test-key" {
			t.Errorf("unexpected api key header: %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("unexpected anthropic-version: %q", r.Header.Get("anthropic-version"))
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write(buildMessagesResponse(`{"intent":"tx.buy","entities":{"asset":"BTC","quantity":0.1,"price":95000,"account":"Binance"},"missing":[],"confidence":0.93}`))
	}))
	defer srv.Close()

	dctx := nlp.DialogueContext{
		SessionID:   "s1",
		LastAccount: "Ledger",
		History: []nlp.HistoryMessage{
			{Role: "assistant", Content: "dropped: history must start with user"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	}
	got, err := newCloud(t, srv.URL).Parse(context.Background(), "I bought 0.1 btc at 95000 on Binance", dctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Intent != intent.TxBuy {
		t.Errorf("intent: got %q, want %q", got.Intent, intent.TxBuy)
	}
	if got.Source != intent.SourceCloud {
		t.Errorf("source: got %q, want cloud", got.Source)
	}
	if got.Confidence != 0.93 {
		t.Errorf("confidence: got %v", got.Confidence)
	}

	if captured["model"] != nlp.DefaultCloudModel {
		t.Errorf("model: got %v", captured["model"])
	}
	system, _ := captured["system"].(string)
	if !strings.Contains(system, "Last used account: Ledger") {
		t.Errorf("system prompt lacks context block: %q", system)
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("messages: got %d, want 3 (%v)", len(msgs), msgs)
	}
	last := msgs[2].(map[string]any)
	if last["role"] != "user" || last["content"] != "I bought 0.1 btc at 95000 on Binance" {
		t.Errorf("last message: %v", last)
	}
}

func TestCloud_RateLimitIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := newCloud(t, srv.URL).Parse(context.Background(), "price of btc", nlp.DialogueContext{})
	if !errors.Is(err, nlp.ErrRateLimit) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestCloud_FallsBackOnFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		closed   bool
		inReason string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"error":{"message":"invalid x-api-key"}}`, inReason: "HTTP 401"},
		{name: "malformed output", status: http.StatusOK, body: string(buildMessagesResponse("I am not JSON")), inReason: "malformed"},
		{name: "network error", closed: true, inReason: "http request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			if tt.closed {
				srv.Close()
			} else {
				defer srv.Close()
			}

			got, err := newCloud(t, srv.URL).Parse(context.Background(), "what's the price of bitcoin", nlp.DialogueContext{})
			if err != nil {
				t.Fatalf("provider must degrade, got error: %v", err)
			}
			if got.Source != intent.SourceRules {
				t.Errorf("source: got %q, want rules", got.Source)
			}
			if got.Intent != intent.PriceCheck {
				t.Errorf("intent: got %q, want price.check", got.Intent)
			}
			if !strings.Contains(got.FallbackReason, tt.inReason) {
				t.Errorf("fallback reason %q does not mention %q", got.FallbackReason, tt.inReason)
			}
			if strings.Contains(got.FallbackReason, "sk-test-key") {
				t.Error("fallback reason leaks the API key")
			}
		})
	}
}

func TestCloud_ServerErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(529)
		w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer srv.Close()

	got, err := newCloud(t, srv.URL).Parse(context.Background(), "sync my exchanges", nlp.DialogueContext{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Source != intent.SourceRules || got.Intent != intent.Sync {
		t.Errorf("got %s from %s, want sync from rules", got.Intent, got.Source)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls: got %d, want 1", n)
	}
}

func TestCloud_MissingCredentials(t *testing.T) {
	_, err := nlp.NewCloud(nlp.CloudConfig{APIKey: "  "}, nil)
	if !errors.Is(err, nlp.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestCloud_Health(t *testing.T) {
	p := newCloud(t, "http://127.0.0.1:1")
	if !p.Health(context.Background()) {
		t.Error("cloud health should only require a key")
	}
}
