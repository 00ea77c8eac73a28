package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bdobrica/folio/internal/folio/intent"
)

// Mode selects which model providers the Router may use.
type Mode string

const (
	ModeOnline   Mode = "online"
	ModeOffline  Mode = "offline"
	ModeHybrid   Mode = "hybrid"
	ModeDisabled Mode = "disabled"
)

// ParseMode accepts the canonical names and their aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online", "cloud", "claude":
		return ModeOnline, nil
	case "offline", "local", "ollama":
		return ModeOffline, nil
	case "hybrid", "auto", "":
		return ModeHybrid, nil
	case "disabled", "off", "none":
		return ModeDisabled, nil
	}
	return "", fmt.Errorf("nlp: unknown AI mode %q", s)
}

// Complexity is a cheap estimate of how much reasoning an utterance needs.
type Complexity int

const (
	ComplexityLow Complexity = iota
	ComplexityMedium
	ComplexityHigh
)

func (c Complexity) String() string {
	switch c {
	case ComplexityLow:
		return "low"
	case ComplexityHigh:
		return "high"
	default:
		return "medium"
	}
}

var multiClause = regexp.MustCompile(`\b(and then|after that|also|but first|if|when|multiple|all my|everything)\b`)

// AssessComplexity: three words or fewer is Low, a multi-clause marker is
// High, anything else is Medium.
func AssessComplexity(text string) Complexity {
	if len(strings.Fields(text)) <= 3 {
		return ComplexityLow
	}
	if multiClause.MatchString(strings.ToLower(text)) {
		return ComplexityHigh
	}
	return ComplexityMedium
}

type namedProvider struct {
	source intent.Source
	p      Provider
}

// Router chooses a provider per utterance and guarantees a result.
type Router struct {
	mode    Mode
	cloud   Provider
	local   Provider
	rules   *Rules
	limiter *RateLimiter
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithCloud registers the cloud provider. Leave it out when unconfigured.
func WithCloud(p Provider) RouterOption { return func(r *Router) { r.cloud = p } }

// WithLocal registers the local provider.
func WithLocal(p Provider) RouterOption { return func(r *Router) { r.local = p } }

// WithRules replaces the default deterministic provider.
func WithRules(p *Rules) RouterOption { return func(r *Router) { r.rules = p } }

// WithRateLimiter bounds model calls per session.
func WithRateLimiter(l *RateLimiter) RouterOption { return func(r *Router) { r.limiter = l } }

// NewRouter builds a router for mode. Providers that mode does not allow
// are ignored.
func NewRouter(mode Mode, opts ...RouterOption) *Router {
	r := &Router{mode: mode}
	for _, opt := range opts {
		opt(r)
	}
	if r.rules == nil {
		r.rules = NewRules(nil)
	}
	switch mode {
	case ModeOnline:
		r.local = nil
	case ModeOffline:
		r.cloud = nil
	case ModeDisabled:
		r.cloud, r.local = nil, nil
	}
	return r
}

// Mode returns the configured operating mode.
func (r *Router) Mode() Mode { return r.mode }

// Available reports whether any model provider is configured.
func (r *Router) Available() bool {
	return r.cloud != nil || r.local != nil
}

// order returns the providers to try for complexity c, preferred first.
// Unconfigured providers are skipped.
func (r *Router) order(c Complexity) []namedProvider {
	cloud := namedProvider{intent.SourceCloud, r.cloud}
	local := namedProvider{intent.SourceLocal, r.local}

	var candidates []namedProvider
	switch r.mode {
	case ModeOnline:
		candidates = []namedProvider{cloud}
	case ModeOffline:
		candidates = []namedProvider{local}
	case ModeHybrid:
		if c == ComplexityHigh {
			candidates = []namedProvider{cloud, local}
		} else {
			candidates = []namedProvider{local, cloud}
		}
	}
	out := candidates[:0]
	for _, np := range candidates {
		if np.p != nil {
			out = append(out, np)
		}
	}
	return out
}

// Plan returns the sources Route would try for text, in order.
func (r *Router) Plan(text string) []intent.Source {
	var out []intent.Source
	for _, np := range r.order(AssessComplexity(text)) {
		out = append(out, np.source)
	}
	return out
}

// Route interprets text. It never fails: an unusable provider hands over to
// the next one, and the deterministic extractor answers when none is left.
// When no model provider is configured at all, or the mode is disabled,
// the result is Unclear with zero confidence.
func (r *Router) Route(ctx context.Context, text string, dctx DialogueContext) *intent.ParseResult {
	complexity := AssessComplexity(text)
	order := r.order(complexity)
	if len(order) == 0 {
		return intent.UnclearResult(text, intent.SourceNone)
	}

	if r.limiter != nil && !r.limiter.Allow(dctx.SessionID) {
		slog.Info("nlp: session rate limit reached, using rules", "session_id", dctx.SessionID)
		return fallback(r.rules.x, text, ErrRateLimit)
	}

	var lastErr error
	for _, np := range order {
		res, err := np.p.Parse(ctx, text, dctx)
		if err == nil {
			slog.Debug("nlp: parsed",
				"session_id", dctx.SessionID,
				"source", res.Source,
				"complexity", complexity.String(),
				"intent", res.Intent,
				"confidence", res.Confidence)
			return res
		}
		slog.Warn("nlp: provider unusable", "session_id", dctx.SessionID, "provider", np.source, "err", err)
		lastErr = err
	}
	return fallback(r.rules.x, text, lastErr)
}

// Effective reports which source would answer a typical request right now:
// the first healthy model provider, else the rules, else none.
func (r *Router) Effective(ctx context.Context) intent.Source {
	order := r.order(ComplexityMedium)
	if len(order) == 0 {
		return intent.SourceNone
	}
	for _, np := range order {
		if np.p.Health(ctx) {
			return np.source
		}
	}
	return intent.SourceRules
}
