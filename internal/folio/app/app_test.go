package app_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdobrica/folio/internal/folio/app"
	"github.com/bdobrica/folio/internal/folio/config"
	"github.com/bdobrica/folio/internal/folio/console"
	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/journal"
	"github.com/bdobrica/folio/internal/folio/nlp"
)

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	return &config.Config{
		AI: config.AIConfig{
			Mode:          mode,
			ClaudeModel:   nlp.DefaultCloudModel,
			ClaudeTimeout: time.Second,
			OllamaURL:     "http://127.0.0.1:1",
			LocalModel:    nlp.DefaultLocalModel,
			OllamaTimeout: 200 * time.Millisecond,
			RateLimit:     20,
		},
		Journal: config.JournalConfig{Path: filepath.Join(t.TempDir(), "journal.db")},
	}
}

func newApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestStatus_HybridWithoutKey(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ollama.Close()

	cfg := testConfig(t, "hybrid")
	cfg.AI.OllamaURL = ollama.URL
	a := newApp(t, cfg)

	st := a.Status(context.Background())
	assert.Equal(t, nlp.ModeHybrid, st.Mode)
	assert.False(t, st.CloudConfigured)
	assert.True(t, st.LocalConfigured)
	assert.True(t, st.LocalReachable)
	assert.Equal(t, intent.SourceLocal, st.Effective)
	assert.Equal(t, cfg.Journal.Path, st.Journal)
}

func TestStatus_OnlineWithKey(t *testing.T) {
	cfg := testConfig(t, "online")
	cfg.AI.ClaudeAPIKey = "sk-ant-test"
	a := newApp(t, cfg)

	st := a.Status(context.Background())
	assert.True(t, st.CloudConfigured)
	assert.False(t, st.LocalConfigured)
	assert.Equal(t, intent.SourceCloud, st.Effective)
}

func TestStatus_OfflineUnreachable(t *testing.T) {
	a := newApp(t, testConfig(t, "offline"))

	st := a.Status(context.Background())
	assert.True(t, st.LocalConfigured)
	assert.False(t, st.LocalReachable)
	assert.Equal(t, intent.SourceRules, st.Effective)
}

func TestParse(t *testing.T) {
	offline := newApp(t, testConfig(t, "offline"))
	res := offline.Parse(context.Background(), "what's the price of bitcoin")
	assert.Equal(t, intent.PriceCheck, res.Intent)
	assert.Equal(t, intent.SourceRules, res.Source)

	disabled := newApp(t, testConfig(t, "disabled"))
	res = disabled.Parse(context.Background(), "what's the price of bitcoin")
	assert.Equal(t, intent.Unclear, res.Intent)
	assert.Equal(t, intent.SourceNone, res.Source)
}

func TestNew_BadVocabularyIsFatal(t *testing.T) {
	cfg := testConfig(t, "offline")
	cfg.Vocab.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := app.New(cfg)
	assert.Error(t, err)
}

func TestNew_JournalFailureIsNotFatal(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := testConfig(t, "offline")
	cfg.Journal.Path = filepath.Join(blocker, "journal.db")
	a := newApp(t, cfg)
	assert.Empty(t, a.Status(context.Background()).Journal)
}

func TestShell_SeedsFromPreviousSession(t *testing.T) {
	cfg := testConfig(t, "offline")
	ctx := context.Background()

	first := newApp(t, cfg)
	var out bytes.Buffer
	err := first.Shell(ctx, console.EchoExecutor{W: &out},
		console.WithIO(strings.NewReader("I bought 0.1 btc at 95000 on Binance\ny\nquit\n"), &out))
	require.NoError(t, err)
	assert.Contains(t, out.String(), `(dry run) tx buy BTC 0.1 --account Binance --price 95000`)
	require.NoError(t, first.Close())

	j, err := journal.Open(cfg.Journal.Path)
	require.NoError(t, err)
	seed, err := j.Seed(ctx)
	require.NoError(t, err)
	j.Close()
	assert.Equal(t, "Binance", seed.LastAccount)
	assert.Equal(t, "BTC", seed.LastAsset)

	second := newApp(t, cfg)
	eng, err := second.NewSession(ctx)
	require.NoError(t, err)
	st := eng.State()
	assert.Equal(t, "Binance", st.LastAccount)
	assert.Equal(t, "BTC", st.LastAsset)
}
