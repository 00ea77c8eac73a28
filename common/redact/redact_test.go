package redact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bdobrica/folio/common/redact"
)

func TestString(t *testing.T) {
	key := "sk-ant-api03-abcdef"
	got := redact.String(`Post "https://x/v1/messages?k=sk-ant-api03-abcdef": timeout`, key)
	assert.Equal(t, `Post "https://x/v1/messages?k=[REDACTED]": timeout`, got)
}

func TestString_SkipsShortSecrets(t *testing.T) {
	assert.Equal(t, "abc def", redact.String("abc def", "abc", ""))
}

func TestSettings(t *testing.T) {
	in := map[string]any{
		"ai": map[string]any{
			"mode":           "hybrid",
			"claude_api_key": "sk-ant-secret",
			"rate_limit":     20,
		},
		"journal": map[string]any{"path": "/tmp/j.db"},
		"token":   "",
	}
	got := redact.Settings(in)

	ai := got["ai"].(map[string]any)
	assert.Equal(t, "[REDACTED]", ai["claude_api_key"])
	assert.Equal(t, "hybrid", ai["mode"])
	assert.Equal(t, 20, ai["rate_limit"])
	assert.Equal(t, "/tmp/j.db", got["journal"].(map[string]any)["path"])
	assert.Equal(t, "", got["token"], "empty values stay empty")
	assert.Equal(t, "sk-ant-secret", in["ai"].(map[string]any)["claude_api_key"], "input untouched")
}
