package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postag/analyzer"
	"postag/analyzer/analyzertest"
	"postag/model"
	"postag/pos"
)

func newHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	m := analyzertest.New(map[string]string{"猫": "名詞,一般", "。": "記号,句点"})
	tg, err := pos.New(analyzer.Config{}, pos.Options{Workers: 2, NewModel: m.Factory()})
	require.NoError(t, err)
	t.Cleanup(func() { tg.Close() })
	return Handler(tg, cfg)
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/tag", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTagJoin(t *testing.T) {
	h := newHandler(t, Config{AllowedOrigins: []string{"*"}})
	rec := post(h, `{"texts": ["猫 。", ""], "mode": "join"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out model.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, model.ModeJoin, out.Mode)
	require.Len(t, out.Join, 2)
	assert.Equal(t, []string{"猫/名詞", "。/記号"}, out.Join[0].Tokens)
}

func TestTagDefaultMode(t *testing.T) {
	h := newHandler(t, Config{DefaultMode: model.ModeTabular})
	rec := post(h, `{"texts": ["猫 。 猫"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out model.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.Table)
	require.Len(t, out.Table.Rows, 3)
	assert.Equal(t, 2, out.Table.Rows[2].SentenceID)
}

func TestTagBadRequests(t *testing.T) {
	h := newHandler(t, Config{MaxTexts: 2})
	tests := []struct {
		name string
		body string
		code int
	}{
		{"not json", `texts`, http.StatusBadRequest},
		{"missing texts", `{"mode": "join"}`, http.StatusBadRequest},
		{"bad mode", `{"texts": ["a"], "mode": "xml"}`, http.StatusBadRequest},
		{"too many", `{"texts": ["a", "b", "c"]}`, http.StatusRequestEntityTooLarge},
		{"invalid utf-8", "{\"texts\": [\"a\xffb\"]}", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			var e errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newHandler(t, Config{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tag", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthAndCORS(t *testing.T) {
	h := newHandler(t, Config{AllowedOrigins: []string{"https://example.org"}})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
