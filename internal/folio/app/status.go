package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/nlp"
)

// Status describes interpreter availability.
type Status struct {
	Mode            nlp.Mode      `json:"mode"`
	CloudConfigured bool          `json:"cloud_configured"`
	CloudModel      string        `json:"cloud_model,omitempty"`
	LocalConfigured bool          `json:"local_configured"`
	LocalReachable  bool          `json:"local_reachable"`
	LocalURL        string        `json:"local_url,omitempty"`
	LocalModel      string        `json:"local_model,omitempty"`
	Effective       intent.Source `json:"effective"`
	Journal         string        `json:"journal,omitempty"`
}

// Status probes the configured providers concurrently.
func (a *App) Status(ctx context.Context) Status {
	st := Status{
		Mode:            a.router.Mode(),
		CloudConfigured: a.cloud != nil,
		LocalConfigured: a.local != nil,
	}
	if a.cloud != nil {
		st.CloudModel = a.cfg.AI.ClaudeModel
	}
	if a.local != nil {
		st.LocalURL = a.cfg.AI.OllamaURL
		st.LocalModel = a.cfg.AI.LocalModel
	}
	if a.journal != nil {
		st.Journal = a.cfg.Journal.Path
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.local != nil {
		g.Go(func() error {
			st.LocalReachable = a.local.Health(gctx)
			return nil
		})
	}
	g.Go(func() error {
		st.Effective = a.router.Effective(gctx)
		return nil
	})
	_ = g.Wait()
	return st
}
