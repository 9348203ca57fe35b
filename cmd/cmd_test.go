package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postag/export"
	"postag/model"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "postag dev")
}

func TestTagJoinFromStdin(t *testing.T) {
	out, err := run(t, "猫\n\n", "tag", "--mode", "join", "--workers", "2")
	require.NoError(t, err)

	var got model.Output
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Join, 2)
	assert.Equal(t, []string{"猫/名詞"}, got.Join[0].Tokens)
	assert.Empty(t, got.Join[1].Tokens)
}

func TestTagDocPerFileFromStdin(t *testing.T) {
	out, err := run(t, "猫\n猫\n", "tag", "--mode", "join", "--doc-per-file")
	require.NoError(t, err)

	var got model.Output
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Join, 1)
	assert.Equal(t, "猫\n猫\n", got.Join[0].Text)
}

func TestTagTabularCSVFromFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("猫です。\n猫\n"), 0o644))

	out, err := run(t, "", "tag", "-m", "tabular", "-f", "csv", in)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "doc_id,sentence_id,token_id,token,pos,subtype,analytic", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,1,1,猫,名詞,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "2,1,1,猫,"), lines[len(lines)-1])
}

func TestTagSQLiteWithReport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tokens.db")
	reports := filepath.Join(dir, "reports")

	_, err := run(t, "猫です。\n", "tag", "-m", "tabular", "-f", "sqlite", "-o", db, "--report", reports)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(reports, "*_report.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var rep struct {
		RunID string `json:"run_id"`
		Units int    `json:"units"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, 1, rep.Units)

	store, err := export.OpenSQLite(db)
	require.NoError(t, err)
	defer store.Close()
	rows, err := store.Rows(context.Background(), rep.RunID)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "猫", rows[0].Token)
}

func TestTagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"tag", "--mode", "xml"}},
		{"bad format", []string{"tag", "--format", "parquet"}},
		{"sqlite needs tabular", []string{"tag", "-f", "sqlite", "-o", "x.db"}},
		{"sqlite needs output", []string{"tag", "-m", "tabular", "-f", "sqlite"}},
		{"missing dictionary", []string{"tag", "--sys-dic", "/nonexistent/dict.zip"}},
		{"missing file", []string{"tag", "/nonexistent/corpus.txt"}},
		{"bad split mode", []string{"tag", "--split-mode", "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "猫\n", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "postag.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  mode: join\n  format: tsv\n"), 0o644))

	out, err := run(t, "猫\n", "--config", cfgPath, "tag")
	require.NoError(t, err)
	assert.Equal(t, "doc_id\ttext\ttoken_id\ttoken\n1\t猫\t1\t猫/名詞\n", out)

	out, err = run(t, "猫\n", "--config", cfgPath, "tag", "--mode", "simple")
	require.NoError(t, err)
	assert.Equal(t, "doc_id\ttext\ttoken_id\ttoken\tpos\n1\t猫\t1\t猫\t名詞\n", out)
}
