// Package app wires configuration, vocabulary, interpreters, journal and
// console into a runnable folio session.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bdobrica/folio/internal/folio/config"
	"github.com/bdobrica/folio/internal/folio/console"
	"github.com/bdobrica/folio/internal/folio/dialogue"
	"github.com/bdobrica/folio/internal/folio/engine"
	"github.com/bdobrica/folio/internal/folio/extract"
	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/journal"
	"github.com/bdobrica/folio/internal/folio/nlp"
	"github.com/bdobrica/folio/internal/folio/vocab"
)

// App holds the long-lived components shared by every session.
type App struct {
	cfg     *config.Config
	vocab   *vocab.Vocabulary
	router  *nlp.Router
	cloud   *nlp.Cloud
	local   *nlp.Local
	journal *journal.Journal
}

// New builds the application. A missing API key or an unopenable journal
// is logged and leaves that component out; only a bad vocabulary file is
// fatal.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	a.vocab = vocab.Default()
	if cfg.Vocab.Path != "" {
		v, err := vocab.Load(cfg.Vocab.Path)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		a.vocab = v
	}
	x := extract.New(a.vocab)

	mode := cfg.Mode()
	opts := []nlp.RouterOption{nlp.WithRules(nlp.NewRules(x))}

	if mode == nlp.ModeOnline || mode == nlp.ModeHybrid {
		cloud, err := nlp.NewCloud(nlp.CloudConfig{
			APIKey:  cfg.AI.ClaudeAPIKey,
			BaseURL: cfg.AI.ClaudeBaseURL,
			Model:   cfg.AI.ClaudeModel,
			Timeout: cfg.AI.ClaudeTimeout,
		}, x)
		switch {
		case errors.Is(err, nlp.ErrMissingCredentials):
			slog.Warn("app: cloud provider not configured", "err", err)
		case err != nil:
			return nil, fmt.Errorf("app: cloud provider: %w", err)
		default:
			a.cloud = cloud
			opts = append(opts, nlp.WithCloud(cloud))
		}
	}
	if mode == nlp.ModeOffline || mode == nlp.ModeHybrid {
		a.local = nlp.NewLocal(nlp.LocalConfig{
			BaseURL: cfg.AI.OllamaURL,
			Model:   cfg.AI.LocalModel,
			Timeout: cfg.AI.OllamaTimeout,
		}, x)
		opts = append(opts, nlp.WithLocal(a.local))
	}
	if cfg.AI.RateLimit > 0 {
		opts = append(opts, nlp.WithRateLimiter(nlp.NewRateLimiter(cfg.AI.RateLimit, time.Minute)))
	}
	a.router = nlp.NewRouter(mode, opts...)

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			slog.Warn("app: journal disabled", "path", cfg.Journal.Path, "err", err)
		} else {
			a.journal = j
		}
	}

	slog.Debug("app: ready",
		"mode", mode,
		"cloud", a.cloud != nil,
		"local", a.local != nil,
		"journal", a.journal != nil,
		"config_file", cfg.File)
	return a, nil
}

// Close releases the journal.
func (a *App) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// Router returns the interpreter router.
func (a *App) Router() *nlp.Router { return a.router }

// Parse interprets text once, outside any session.
func (a *App) Parse(ctx context.Context, text string) *intent.ParseResult {
	return a.router.Route(ctx, text, nlp.DialogueContext{SessionID: "oneshot"})
}

// NewSession starts a journaled session seeded from recent commands.
func (a *App) NewSession(ctx context.Context) (*engine.Engine, error) {
	var seed dialogue.Seed
	id := uuid.NewString()
	if a.journal != nil {
		s, err := a.journal.Seed(ctx)
		if err != nil {
			slog.Warn("app: could not recover context", "err", err)
		}
		seed = s
		if id, err = a.journal.StartSession(ctx, string(a.router.Mode())); err != nil {
			return nil, err
		}
	}
	slog.Debug("app: session started", "session", id, "last_account", seed.LastAccount, "last_asset", seed.LastAsset)
	return engine.New(id, a.router, dialogue.NewManager(seed, a.vocab)), nil
}

// Shell runs an interactive session until the user leaves.
func (a *App) Shell(ctx context.Context, exec console.Executor, opts ...console.Option) error {
	eng, err := a.NewSession(ctx)
	if err != nil {
		return err
	}
	if a.journal != nil {
		opts = append(opts, console.WithRecorder(a.journal))
	}
	return console.New(eng, exec, opts...).Run(ctx)
}
