package intent

// Source records which interpreter produced a ParseResult.
type Source string

const (
	SourceCloud Source = "cloud"
	SourceLocal Source = "local"
	SourceRules Source = "rules"
	// SourceNone marks results produced without consulting any interpreter
	// (disabled mode, nothing configured).
	SourceNone Source = "none"
)

// ParseResult is the output of one interpretation of an utterance. It is
// built fresh on every call and treated as read-only afterwards.
type ParseResult struct {
	Intent     Intent            `json:"intent"`
	Entities   map[string]Entity `json:"entities"`
	Missing    []string          `json:"missing"`
	Confidence float64           `json:"confidence"`
	Raw        string            `json:"raw"`
	Source     Source            `json:"source"`

	// FallbackReason is set when a model was preferred but the deterministic
	// extractor produced this result instead.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// NewResult returns an empty result for in with an allocated entity map.
func NewResult(in Intent, raw string, confidence float64, src Source) *ParseResult {
	return &ParseResult{
		Intent:     in,
		Entities:   make(map[string]Entity),
		Missing:    []string{},
		Confidence: confidence,
		Raw:        raw,
		Source:     src,
	}
}

// UnclearResult is the zero-confidence Unclear result for raw.
func UnclearResult(raw string, src Source) *ParseResult {
	return NewResult(Unclear, raw, 0, src)
}

// Entity returns the named entity and whether it is present.
func (r *ParseResult) Entity(name string) (Entity, bool) {
	e, ok := r.Entities[name]
	return e, ok
}
