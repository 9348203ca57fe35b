package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postag/model"
)

func TestConfigArgs(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"empty", Config{}, ""},
		{"sys only", Config{SysDic: "/dic/ipadic"}, " -d /dic/ipadic"},
		{"user only", Config{UserDic: "user.csv"}, " -u user.csv"},
		{"both", Config{SysDic: "uni", UserDic: "user.csv"}, " -d uni -u user.csv"},
		{"split mode is not a flag", Config{SplitMode: "search"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Args())
		})
	}
}

func TestParseSplitMode(t *testing.T) {
	for in, want := range map[string]tokenizer.TokenizeMode{
		"":         tokenizer.Normal,
		"normal":   tokenizer.Normal,
		"Search":   tokenizer.Search,
		"extended": tokenizer.Extended,
	} {
		got, err := ParseSplitMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSplitMode("fast")
	assert.Error(t, err)
}

func TestErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("boom")
	var err error = &ConfigurationError{Args: " -d x", Err: cause}
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSession)
	assert.Contains(t, err.Error(), `" -d x"`)

	err = &SessionError{Worker: 3, Err: cause}
	assert.ErrorIs(t, err, ErrSession)
	assert.ErrorIs(t, err, cause)
	var se *SessionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Worker)
}

func TestNewKagomeModelBadConfig(t *testing.T) {
	_, err := NewKagomeModel(Config{SysDic: "/nonexistent/dict.zip"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewKagomeModel(Config{UserDic: "/nonexistent/user.csv"})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewKagomeModel(Config{SplitMode: "bogus"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestKagomeSession(t *testing.T) {
	m, err := NewKagomeModel(Config{})
	require.NoError(t, err)
	defer m.Close()

	s, err := m.NewSession()
	require.NoError(t, err)
	defer s.Close()

	nodes, err := s.Analyze("猫")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, model.BeginOfSentence, nodes[0].Status)
	assert.Equal(t, model.EndOfSentence, nodes[2].Status)
	assert.Equal(t, "猫", nodes[1].Surface)
	assert.True(t, strings.HasPrefix(nodes[1].Feature, "名詞,"), nodes[1].Feature)

	nodes, err = s.Analyze("")
	require.NoError(t, err)
	for _, n := range nodes {
		assert.NotEqual(t, model.Ordinary, n.Status)
	}
}

func TestKagomeUnknownWordHasShortFeature(t *testing.T) {
	m, err := NewKagomeModel(Config{SysDic: "ipa"})
	require.NoError(t, err)
	s, err := m.NewSession()
	require.NoError(t, err)
	defer s.Close()

	nodes, err := s.Analyze("Golang")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "Golang", nodes[1].Surface)
	assert.Less(t, len(strings.Split(nodes[1].Feature, ",")), 8)
}

func TestKagomeClosed(t *testing.T) {
	m, err := NewKagomeModel(Config{})
	require.NoError(t, err)
	s, err := m.NewSession()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = s.Analyze("猫")
	assert.ErrorIs(t, err, ErrClosed)

	require.NoError(t, m.Close())
	_, err = m.NewSession()
	assert.ErrorIs(t, err, ErrClosed)
}
