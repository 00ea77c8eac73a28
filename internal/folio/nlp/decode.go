package nlp

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/bdobrica/folio/internal/folio/intent"
)

//go:embed schema/parse_result.json
var parseResultSchemaJSON string

var parseResultSchema = mustCompileSchema("parse_result.json", parseResultSchemaJSON)

func mustCompileSchema(name, doc string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(doc)); err != nil {
		panic(fmt.Sprintf("nlp: add schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// Entities whose string values are tickers.
var symbolFields = map[string]bool{
	intent.FieldAsset:     true,
	intent.FieldSymbol:    true,
	intent.FieldFromAsset: true,
	intent.FieldToAsset:   true,
}

const codeFence = "```"

// extractJSON pulls the first JSON object out of noisy model text: a fenced
// block if there is one, otherwise the first balanced {...}.
func extractJSON(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if start := strings.Index(raw, codeFence); start != -1 {
		rest := raw[start+len(codeFence):]
		if end := strings.Index(rest, codeFence); end != -1 {
			if obj, ok := balancedObject(rest[:end]); ok {
				return obj, true
			}
		}
	}
	return balancedObject(raw)
}

func balancedObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start == -1 {
		return "", false
	}
	depth := 0
	inString, escape := false, false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeModelOutput turns model text into a ParseResult. Any failure wraps
// ErrMalformedOutput.
func decodeModelOutput(content, raw string, defaultConfidence float64, src intent.Source) (*intent.ParseResult, error) {
	doc, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in %.120q", ErrMalformedOutput, content)
	}

	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := parseResultSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	parsed := gjson.Parse(doc)
	res := intent.NewResult(intent.Lookup(parsed.Get("intent").String()), raw, defaultConfidence, src)

	parsed.Get("entities").ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if strings.HasPrefix(name, "_") {
			return true
		}
		if e, ok := entityFromJSON(name, value); ok {
			res.Entities[name] = e
		}
		return true
	})

	parsed.Get("missing").ForEach(func(_, value gjson.Result) bool {
		if s := value.String(); s != "" {
			res.Missing = append(res.Missing, s)
		}
		return true
	})

	if c := parsed.Get("confidence"); c.Type == gjson.Number {
		res.Confidence = clamp01(c.Float())
	}
	return res, nil
}

func entityFromJSON(name string, value gjson.Result) (intent.Entity, bool) {
	switch {
	case value.IsArray():
		var syms []string
		value.ForEach(func(_, item gjson.Result) bool {
			if s := strings.TrimSpace(item.String()); s != "" {
				syms = append(syms, strings.ToUpper(s))
			}
			return true
		})
		return intent.NewSymbols(syms...), true
	case value.Type == gjson.Number:
		d, err := decimal.NewFromString(value.Raw)
		if err != nil {
			return intent.Entity{}, false
		}
		return intent.NewNumber(d), true
	case value.Type == gjson.True, value.Type == gjson.False:
		return intent.NewBool(value.Bool()), true
	case value.Type == gjson.String:
		s := strings.TrimSpace(value.String())
		if s == "" {
			return intent.Entity{}, false
		}
		if name == intent.FieldSymbols {
			return intent.NewSymbols(splitSymbols(s)...), true
		}
		if symbolFields[name] {
			s = strings.ToUpper(s)
		}
		return intent.NewString(s), true
	}
	return intent.Entity{}, false
}

func splitSymbols(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	for i := range fields {
		fields[i] = strings.ToUpper(fields[i])
	}
	return fields
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
