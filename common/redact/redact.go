// Package redact strips credentials from strings and settings before they
// reach logs, the journal, or the terminal.
//
// Redaction works on string representations only. Callers pass the values
// they know to be secret; nothing is detected automatically except by key
// name in Settings.
package redact

import (
	"strings"
)

const placeholder = "[REDACTED]"

// String replaces every occurrence of each secret in s with [REDACTED].
// Secrets shorter than 4 characters are ignored.
//
//	reason := redact.String(err.Error(), apiKey)
func String(s string, secrets ...string) string {
	for _, v := range secrets {
		if len(v) < 4 {
			continue
		}
		s = strings.ReplaceAll(s, v, placeholder)
	}
	return s
}

// Settings returns a copy of m in which non-empty string values under
// credential-looking keys ("api_key", "token", "secret", ...) are replaced.
// Nested maps are walked.
func Settings(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			out[k] = Settings(val)
		case string:
			if val != "" && sensitive(k) {
				out[k] = placeholder
			} else {
				out[k] = val
			}
		default:
			out[k] = v
		}
	}
	return out
}

func sensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, word := range []string{"password", "token", "secret", "key", "credential", "auth"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
