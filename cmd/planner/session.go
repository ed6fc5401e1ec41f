package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pkordes/tripboard/internal/client"
	"github.com/pkordes/tripboard/internal/config"
	"github.com/pkordes/tripboard/internal/listing"
	"github.com/pkordes/tripboard/internal/loop"
	"github.com/pkordes/tripboard/internal/presenter"
	"github.com/pkordes/tripboard/internal/store"
)

// errRejected is returned when the API refused a change. The reason has
// already been logged by the store.
var errRejected = errors.New("change rejected by the server")

// session is one loaded presenter. Presenter state is only touched inside
// do, which runs on the loop.
type session struct {
	loop  *loop.Loop
	store *store.Store
	orch  *presenter.Orchestrator
}

func openSession(ctx context.Context, cfg config.Planner, log *slog.Logger) (*session, error) {
	remote := client.New(cfg.APIURL, &http.Client{Timeout: cfg.Timeout})
	st := store.New(remote, log)
	lp := loop.New()

	orch, err := presenter.New(presenter.Options{
		Store:     st,
		Selection: listing.NewFilterSelection(listing.DefaultFilters()),
		Lower:     cfg.GateLower,
		Upper:     cfg.GateUpper,
		Executor:  lp,
		Context:   ctx,
		Logger:    log,
	})
	if err != nil {
		lp.Close()
		return nil, err
	}
	s := &session{loop: lp, store: st, orch: orch}

	lp.Do(orch.Init)
	if err := st.Load(ctx); err != nil {
		s.close()
		return nil, fmt.Errorf("could not reach %s: %w", cfg.APIURL, err)
	}
	// The MAJOR notification was posted before Load returned.
	s.do(func(*presenter.Orchestrator) {})
	return s, nil
}

// do runs f on the loop and waits for it.
func (s *session) do(f func(o *presenter.Orchestrator)) {
	s.loop.Do(func() { f(s.orch) })
}

// settle waits for every dispatched change to return from the API and for
// the resulting notifications to be applied.
func (s *session) settle() {
	s.orch.Wait()
	s.do(func(*presenter.Orchestrator) {})
}

func (s *session) close() {
	s.do(func(o *presenter.Orchestrator) { o.Close() })
	s.loop.Close()
}
