// Package pos is the batch entry point: it builds an analyzer model from a
// dictionary configuration, tags a batch of texts in parallel and assembles
// the requested output shape.
package pos

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"postag/analyzer"
	"postag/assemble"
	"postag/model"
	"postag/tagger"
)

// Options tune a Tagger. The zero value is usable.
type Options struct {
	// Workers is the pool size; zero means one per CPU.
	Workers int
	// CacheSize enables an LRU of extracted tokens when positive.
	CacheSize int
	// NewModel builds the analyzer model; defaults to analyzer.NewKagome.
	NewModel analyzer.Factory
	Logger   *slog.Logger
}

// Report summarizes one batch call.
type Report struct {
	RunID     string             `json:"run_id"`
	Mode      model.Mode         `json:"mode"`
	Args      string             `json:"args"`
	Units     int                `json:"units"`
	Tokens    int                `json:"tokens"`
	Workers   int                `json:"workers"`
	StartedAt time.Time          `json:"started_at"`
	Elapsed   time.Duration      `json:"elapsed"`
	Cache     *tagger.CacheStats `json:"cache,omitempty"`
}

// Tag is the one-shot batch call. It builds the model, tags texts, and
// releases the model before returning. Empty sysDic or userDic are left out
// of the analyzer configuration.
func Tag(ctx context.Context, texts []string, sysDic, userDic string, mode model.Mode) (model.Output, error) {
	return TagWith(ctx, texts, analyzer.Config{SysDic: sysDic, UserDic: userDic}, mode, Options{})
}

// TagWith is Tag with a full configuration.
func TagWith(ctx context.Context, texts []string, cfg analyzer.Config, mode model.Mode, opts Options) (model.Output, error) {
	if _, err := model.ParseMode(string(mode)); err != nil {
		return model.Output{}, err
	}
	t, err := New(cfg, opts)
	if err != nil {
		return model.Output{}, err
	}
	defer t.Close()
	return t.Tag(ctx, texts, mode)
}

// Tagger keeps one analyzer model alive across batch calls. It is safe for
// concurrent use; each call gets its own worker sessions.
type Tagger struct {
	cfg       analyzer.Config
	model     analyzer.Model
	tagger    *tagger.Tagger
	cache     *tagger.Cache
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// New builds the analyzer model. A model that cannot be built is reported
// as an analyzer.ConfigurationError and no Tagger is returned.
func New(cfg analyzer.Config, opts Options) (*Tagger, error) {
	factory := opts.NewModel
	if factory == nil {
		factory = analyzer.NewKagome
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m, err := factory(cfg)
	if err != nil {
		return nil, err
	}

	var cache *tagger.Cache
	if opts.CacheSize > 0 {
		cache, err = tagger.NewCache(opts.CacheSize)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("pos: %w", err)
		}
	}

	t := &Tagger{
		cfg:    cfg,
		model:  m,
		cache:  cache,
		logger: logger,
	}
	t.tagger = tagger.New(m, tagger.Config{Workers: opts.Workers, Cache: cache, Logger: logger})
	logger.Debug("analyzer model ready", "args", cfg.Args(), "workers", t.tagger.Workers())
	return t, nil
}

// Tag tags texts and assembles them in the shape selected by mode.
func (t *Tagger) Tag(ctx context.Context, texts []string, mode model.Mode) (model.Output, error) {
	out, _, err := t.TagReport(ctx, texts, mode)
	return out, err
}

// TagReport is Tag that also returns a Report of the call.
func (t *Tagger) TagReport(ctx context.Context, texts []string, mode model.Mode) (model.Output, Report, error) {
	if _, err := model.ParseMode(string(mode)); err != nil {
		return model.Output{}, Report{}, err
	}
	rep := Report{
		RunID:     uuid.NewString(),
		Mode:      mode,
		Args:      t.cfg.Args(),
		StartedAt: time.Now().UTC(),
	}
	logger := t.logger.With("run_id", rep.RunID)
	logger.Info("tagging batch", "units", len(texts), "mode", mode)

	rs, stats, err := t.tagger.WithLogger(logger).Run(ctx, texts, mode.Extraction())
	if err != nil {
		return model.Output{}, Report{}, fmt.Errorf("pos: run %s: %w", rep.RunID, err)
	}
	out, err := assemble.Assemble(mode, texts, rs)
	if err != nil {
		return model.Output{}, Report{}, err
	}

	rep.Units = stats.Units
	rep.Tokens = stats.Tokens
	rep.Workers = stats.Workers
	rep.Elapsed = time.Since(rep.StartedAt)
	if t.cache != nil {
		cs := t.cache.Stats()
		rep.Cache = &cs
	}
	logger.Info("batch done", "units", rep.Units, "tokens", rep.Tokens, "elapsed", rep.Elapsed)
	return out, rep, nil
}

// Close releases the analyzer model. It is safe to call more than once.
func (t *Tagger) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.model.Close()
	})
	return t.closeErr
}
