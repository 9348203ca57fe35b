// Package tagger fans a batch of text units out across a fixed pool of
// workers, each driving its own analyzer session, and collects the
// extracted tokens back in input order.
package tagger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"postag/analyzer"
	"postag/model"
	"postag/tokenize"
)

// Config controls a Tagger.
type Config struct {
	// Workers is the pool size. Zero or less means runtime.NumCPU().
	// One gives the sequential variant.
	Workers int
	// Cache, if set, is consulted before analyzing each unit.
	Cache *Cache
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Tagger runs batches against one shared analyzer model. The model stays
// owned by the caller.
type Tagger struct {
	model   analyzer.Model
	workers int
	cache   *Cache
	logger  *slog.Logger
}

// Stats describes one Run.
type Stats struct {
	Units   int           `json:"units"`
	Tokens  int           `json:"tokens"`
	Workers int           `json:"workers"`
	Elapsed time.Duration `json:"elapsed"`
}

// New returns a Tagger over m.
func New(m analyzer.Model, cfg Config) *Tagger {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tagger{model: m, workers: workers, cache: cfg.Cache, logger: logger}
}

// Workers returns the configured pool size.
func (t *Tagger) Workers() int { return t.workers }

// WithLogger returns a copy of t that logs to l. The copy shares the model
// and cache.
func (t *Tagger) WithLogger(l *slog.Logger) *Tagger {
	c := *t
	c.logger = l
	return &c
}

// Run tags every unit and returns one token sequence per unit, at the
// unit's own index. It blocks until every worker is done. If any worker
// fails to open its session, or ctx is cancelled, Run returns the error and
// no results.
func (t *Tagger) Run(ctx context.Context, units []string, mode model.ExtractMode) (model.ResultSet, Stats, error) {
	start := time.Now()
	ranges := Partition(len(units), t.workers)
	t.logger.Debug("batch started", "units", len(units), "workers", len(ranges), "mode", mode.String())

	// Each worker writes only to the indices of its own range, and ranges
	// never overlap, so results needs no lock.
	results := make(model.ResultSet, len(units))

	g, gctx := errgroup.WithContext(ctx)
	for w, r := range ranges {
		w, r := w, r
		g.Go(func() error {
			return t.runRange(gctx, w, r, units, mode, results)
		})
	}
	if err := g.Wait(); err != nil {
		t.logger.Warn("batch failed", "units", len(units), "workers", len(ranges), "error", err)
		return nil, Stats{}, err
	}

	stats := Stats{Units: len(units), Workers: len(ranges), Elapsed: time.Since(start)}
	for _, toks := range results {
		stats.Tokens += len(toks)
	}
	t.logger.Debug("batch tagged",
		"units", stats.Units,
		"tokens", stats.Tokens,
		"workers", stats.Workers,
		"mode", mode.String(),
		"elapsed", stats.Elapsed)
	return results, stats, nil
}

// runRange owns one session for the lifetime of its range and closes it on
// every exit path.
func (t *Tagger) runRange(ctx context.Context, worker int, r Range, units []string, mode model.ExtractMode, results model.ResultSet) error {
	sess, err := t.model.NewSession()
	if err != nil {
		return &analyzer.SessionError{Worker: worker, Err: err}
	}
	defer sess.Close()

	for i := r.Start; i < r.End; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		toks, err := t.tagOne(sess, units[i], mode)
		if err != nil {
			return fmt.Errorf("unit %d: %w", i, err)
		}
		results[i] = toks
	}
	return nil
}

func (t *Tagger) tagOne(sess analyzer.Session, text string, mode model.ExtractMode) ([]model.Token, error) {
	if t.cache != nil {
		if toks, ok := t.cache.get(mode, text); ok {
			return toks, nil
		}
	}
	nodes, err := sess.Analyze(text)
	if err != nil {
		return nil, err
	}
	toks := tokenize.Extract(nodes, mode)
	if t.cache != nil {
		t.cache.add(mode, text, toks)
	}
	return toks, nil
}

// Run is a one-off Tagger.Run with the given pool size.
func Run(ctx context.Context, units []string, m analyzer.Model, mode model.ExtractMode, workers int) (model.ResultSet, error) {
	rs, _, err := New(m, Config{Workers: workers}).Run(ctx, units, mode)
	return rs, err
}
