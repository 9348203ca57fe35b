package analyzer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"postag/model"
)

// KagomeModel holds the loaded dictionaries. Dictionaries are immutable once
// loaded, so sessions built from them may run in parallel.
type KagomeModel struct {
	sys    *dict.Dict
	user   *dict.UserDict
	mode   tokenizer.TokenizeMode
	closed atomic.Bool
}

var _ Factory = NewKagome

// NewKagome loads the dictionaries named by cfg. Any failure is returned as
// a *ConfigurationError.
func NewKagome(cfg Config) (Model, error) {
	m, err := NewKagomeModel(cfg)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewKagomeModel is NewKagome returning the concrete type.
func NewKagomeModel(cfg Config) (*KagomeModel, error) {
	fail := func(err error) (*KagomeModel, error) {
		return nil, &ConfigurationError{Args: cfg.Args(), Err: err}
	}
	mode, err := ParseSplitMode(cfg.SplitMode)
	if err != nil {
		return fail(err)
	}
	sys, err := loadSystemDict(cfg.SysDic)
	if err != nil {
		return fail(err)
	}
	m := &KagomeModel{sys: sys, mode: mode}
	if cfg.UserDic != "" {
		u, err := dict.NewUserDict(cfg.UserDic)
		if err != nil {
			return fail(fmt.Errorf("user dictionary: %w", err))
		}
		m.user = u
	}
	return m, nil
}

func loadSystemDict(name string) (d *dict.Dict, err error) {
	switch name {
	case "", "ipa":
		return ipa.Dict(), nil
	case "uni":
		return uni.Dict(), nil
	}
	d, err = dict.LoadDictFile(name)
	if err != nil {
		return nil, fmt.Errorf("system dictionary: %w", err)
	}
	return d, nil
}

// ParseSplitMode maps a split mode name onto kagome's tokenize modes.
func ParseSplitMode(s string) (tokenizer.TokenizeMode, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return tokenizer.Normal, nil
	case "search":
		return tokenizer.Search, nil
	case "extended":
		return tokenizer.Extended, nil
	default:
		return tokenizer.Normal, fmt.Errorf("unknown split mode %q", s)
	}
}

// NewSession builds a tokenizer over the shared dictionaries. BOS and EOS
// are kept so the session reports them as boundary nodes.
func (m *KagomeModel) NewSession() (Session, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	opts := []tokenizer.Option{}
	if m.user != nil {
		opts = append(opts, tokenizer.UserDict(m.user))
	}
	t, err := tokenizer.New(m.sys, opts...)
	if err != nil {
		return nil, err
	}
	return &kagomeSession{tok: t, mode: m.mode}, nil
}

// Close marks the model closed. Sessions already open keep working until
// they are closed themselves.
func (m *KagomeModel) Close() error {
	m.closed.Store(true)
	return nil
}

type kagomeSession struct {
	tok    *tokenizer.Tokenizer
	mode   tokenizer.TokenizeMode
	buf    []model.RawNode
	closed bool
}

func (s *kagomeSession) Analyze(text string) ([]model.RawNode, error) {
	if s.closed {
		return nil, ErrClosed
	}
	ktoks := s.tok.Analyze(text, s.mode)
	s.buf = s.buf[:0]
	for i, kt := range ktoks {
		n := model.RawNode{Surface: kt.Surface}
		if kt.Class == tokenizer.DUMMY {
			n.Status = model.EndOfSentence
			if i == 0 {
				n.Status = model.BeginOfSentence
			}
		} else {
			n.Feature = strings.Join(kt.Features(), ",")
		}
		s.buf = append(s.buf, n)
	}
	return s.buf, nil
}

func (s *kagomeSession) Close() error {
	s.closed = true
	s.tok = nil
	s.buf = nil
	return nil
}
