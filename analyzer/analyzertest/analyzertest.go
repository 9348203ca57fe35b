// Package analyzertest provides a scripted analyzer for tests.
package analyzertest

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"postag/analyzer"
	"postag/model"
)

// DefaultFeature is used for words missing from the lexicon.
const DefaultFeature = "名詞,一般,*,*,*,*,*"

// Model splits text on whitespace and looks each word up in Lexicon.
type Model struct {
	Lexicon map[string]string

	// FailSessions makes the n-th and later NewSession calls fail (1-based).
	// Zero disables failures.
	FailSessions int64

	opened   atomic.Int64
	closed   atomic.Int64
	modelOff atomic.Int64

	mu       sync.Mutex
	analyzed map[int64][]string
}

var _ analyzer.Model = (*Model)(nil)

// New returns a Model with the given lexicon of word -> feature string.
func New(lexicon map[string]string) *Model {
	return &Model{Lexicon: lexicon, analyzed: make(map[int64][]string)}
}

// Factory returns an analyzer.Factory that always hands out m.
func (m *Model) Factory() analyzer.Factory {
	return func(analyzer.Config) (analyzer.Model, error) { return m, nil }
}

// FailingFactory returns a factory that reports err as a configuration error.
func FailingFactory(err error) analyzer.Factory {
	return func(cfg analyzer.Config) (analyzer.Model, error) {
		return nil, &analyzer.ConfigurationError{Args: cfg.Args(), Err: err}
	}
}

func (m *Model) NewSession() (analyzer.Session, error) {
	id := m.opened.Add(1)
	if m.FailSessions > 0 && id >= m.FailSessions {
		m.closed.Add(1)
		return nil, errors.New("no memory for lattice")
	}
	return &session{m: m, id: id}, nil
}

func (m *Model) Close() error {
	m.modelOff.Add(1)
	return nil
}

// Opened reports how many sessions were requested.
func (m *Model) Opened() int64 { return m.opened.Load() }

// Closed reports how many sessions were released, including failed opens.
func (m *Model) Closed() int64 { return m.closed.Load() }

// ModelClosed reports how many times Close was called on the model.
func (m *Model) ModelClosed() int64 { return m.modelOff.Load() }

// Analyzed returns the texts each session saw, in the order it saw them.
func (m *Model) Analyzed() map[int64][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64][]string, len(m.analyzed))
	for k, v := range m.analyzed {
		out[k] = append([]string(nil), v...)
	}
	return out
}

type session struct {
	m      *Model
	id     int64
	buf    []model.RawNode
	closed bool
}

func (s *session) Analyze(text string) ([]model.RawNode, error) {
	if s.closed {
		return nil, analyzer.ErrClosed
	}
	s.m.mu.Lock()
	if s.m.analyzed == nil {
		s.m.analyzed = make(map[int64][]string)
	}
	s.m.analyzed[s.id] = append(s.m.analyzed[s.id], text)
	s.m.mu.Unlock()

	s.buf = append(s.buf[:0], model.RawNode{Surface: "BOS", Status: model.BeginOfSentence})
	for _, w := range strings.Fields(text) {
		feature, ok := s.m.Lexicon[w]
		if !ok {
			feature = DefaultFeature
		}
		s.buf = append(s.buf, model.RawNode{Surface: w, Feature: feature})
	}
	s.buf = append(s.buf, model.RawNode{Surface: "EOS", Status: model.EndOfSentence})
	return s.buf, nil
}

func (s *session) Close() error {
	if !s.closed {
		s.closed = true
		s.m.closed.Add(1)
	}
	return nil
}
