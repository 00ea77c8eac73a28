// Package nlp turns free-form portfolio requests into structured parse
// results.
//
// Three interpreters implement Provider: a cloud model (Anthropic Messages
// API), a local model (Ollama), and the deterministic extractor. The Router
// picks which to ask based on the operating Mode and a cheap complexity
// estimate, and always produces a result.
//
// Invariants:
//   - Models only propose an intent and entities; they never execute.
//   - A networked provider degrades to the deterministic extractor on
//     network errors, timeouts, bad status codes and malformed output.
//   - Only two conditions make a provider unusable for a turn (error
//     return): a failed health probe and an upstream rate limit.
package nlp

import (
	"context"
	"errors"

	"github.com/bdobrica/folio/internal/folio/extract"
	"github.com/bdobrica/folio/internal/folio/intent"
)

// ErrRateLimit is returned when the upstream API reports HTTP 429, or when
// the per-session call budget is exhausted.
var ErrRateLimit = errors.New("nlp: rate limit exceeded")

// ErrMalformedOutput marks model output that cannot be read as a parse
// result. It never reaches callers of Provider.Parse; the provider falls
// back to the extractor instead.
var ErrMalformedOutput = errors.New("nlp: malformed response from model")

// ErrUnavailable is returned by a provider whose health probe failed.
var ErrUnavailable = errors.New("nlp: provider unavailable")

// ErrMissingCredentials is returned when constructing the cloud provider
// without an API key.
var ErrMissingCredentials = errors.New("nlp: missing API credentials")

// HistoryMessage is one prior turn of the conversation.
type HistoryMessage struct {
	// Role is "user" or "assistant".
	Role    string
	Content string
}

// DialogueContext is the slice of session state a model may see. It never
// carries credentials.
type DialogueContext struct {
	SessionID   string
	LastAccount string
	LastAsset   string
	Collected   map[string]intent.Entity
	History     []HistoryMessage
}

// Provider interprets one utterance.
//
// Implementations must be safe for concurrent use. Parse returns an error
// only when the provider is unusable for this turn (ErrUnavailable,
// ErrRateLimit); every other failure is absorbed into a fallback result.
type Provider interface {
	Parse(ctx context.Context, text string, dctx DialogueContext) (*intent.ParseResult, error)
	Health(ctx context.Context) bool
}

// Rules adapts the deterministic extractor to Provider. It never fails.
type Rules struct {
	x *extract.Extractor
}

// NewRules wraps x. A nil x uses the default vocabulary.
func NewRules(x *extract.Extractor) *Rules {
	if x == nil {
		x = extract.New(nil)
	}
	return &Rules{x: x}
}

func (r *Rules) Parse(_ context.Context, text string, _ DialogueContext) (*intent.ParseResult, error) {
	return r.x.Extract(text), nil
}

func (r *Rules) Health(context.Context) bool { return true }

func isRateLimit(err error) bool { return errors.Is(err, ErrRateLimit) }

// fallback runs the extractor on behalf of a model provider and tags the
// result with why.
func fallback(x *extract.Extractor, text string, reason error) *intent.ParseResult {
	res := x.Extract(text)
	if reason != nil {
		res.FallbackReason = reason.Error()
	}
	return res
}
