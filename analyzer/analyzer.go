// Package analyzer defines the morphological analyzer contract the tagger
// drives, and a kagome-backed implementation of it.
//
// A Model is built once per batch from a dictionary Config and is shared
// read-only by every worker. Each worker opens its own Session from it and
// drives that session sequentially; sessions are never shared.
package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"postag/model"
)

var (
	ErrConfiguration = errors.New("analyzer: configuration error")
	ErrSession       = errors.New("analyzer: session error")
	ErrClosed        = errors.New("analyzer: closed")
)

// Model is a shared analyzer handle. NewSession must be safe to call from
// multiple goroutines at once.
type Model interface {
	NewSession() (Session, error)
	Close() error
}

// Session analyzes one text at a time. It is not safe for concurrent use.
//
// The returned nodes, including the begin/end markers, are only valid until
// the next call to Analyze on the same session.
type Session interface {
	Analyze(text string) ([]model.RawNode, error)
	Close() error
}

// Factory builds a Model from a dictionary configuration.
type Factory func(cfg Config) (Model, error)

// Config selects the dictionaries a Model is built from.
type Config struct {
	// SysDic is "ipa", "uni", or a path to a kagome dictionary archive.
	// Empty selects ipa.
	SysDic string `yaml:"sys_dic" json:"sys_dic,omitempty"`
	// UserDic is an optional path to a user dictionary in kagome CSV format.
	UserDic string `yaml:"user_dic" json:"user_dic,omitempty"`
	// SplitMode is normal, search or extended. Empty means normal.
	SplitMode string `yaml:"split_mode" json:"split_mode,omitempty"`
}

// Args renders the configuration as an analyzer argument string. Empty
// dictionaries are omitted entirely rather than passed as empty flags.
func (c Config) Args() string {
	var b strings.Builder
	if c.SysDic != "" {
		b.WriteString(" -d ")
		b.WriteString(c.SysDic)
	}
	if c.UserDic != "" {
		b.WriteString(" -u ")
		b.WriteString(c.UserDic)
	}
	return b.String()
}

// ConfigurationError reports a model that could not be built.
type ConfigurationError struct {
	Args string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("analyzer: cannot build model from %q: %v", e.Args, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// SessionError reports a worker that could not open its session.
type SessionError struct {
	Worker int
	Err    error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("analyzer: worker %d cannot open session: %v", e.Worker, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

func (e *SessionError) Is(target error) bool { return target == ErrSession }
