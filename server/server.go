// Package server exposes the batch tagger as a JSON REST API.
//
// Endpoints:
//
//	POST /api/tag     body: {"texts": ["..."], "mode": "simple"}
//	GET  /api/health
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/rs/cors"

	"postag/model"
)

// Tagger is the part of pos.Tagger the server needs.
type Tagger interface {
	Tag(ctx context.Context, texts []string, mode model.Mode) (model.Output, error)
}

type Config struct {
	AllowedOrigins []string
	// MaxTexts rejects larger batches with 413. Zero disables the check.
	MaxTexts int
	// DefaultMode applies when a request names no mode.
	DefaultMode model.Mode
	Logger      *slog.Logger
}

type tagRequest struct {
	Texts []string `json:"texts"`
	Mode  string   `json:"mode,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the API wrapped in CORS handling.
func Handler(tg Tagger, cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = model.ModeSimple
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tag", handleTag(tg, cfg))
	mux.HandleFunc("/api/health", handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// ListenAndServe runs the API on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Default().Warn("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func handleTag(tg Tagger, cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "read body: "+err.Error())
			return
		}
		// encoding/json would replace invalid bytes with U+FFFD.
		if !utf8.Valid(raw) {
			writeError(w, http.StatusBadRequest, "body is not valid UTF-8")
			return
		}
		var body tagRequest
		if err := json.Unmarshal(raw, &body); err != nil {
			writeError(w, http.StatusBadRequest, "body must be JSON with a 'texts' array")
			return
		}
		if body.Texts == nil {
			writeError(w, http.StatusBadRequest, "missing 'texts'")
			return
		}
		if cfg.MaxTexts > 0 && len(body.Texts) > cfg.MaxTexts {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d texts per request", cfg.MaxTexts))
			return
		}
		mode := cfg.DefaultMode
		if body.Mode != "" {
			m, err := model.ParseMode(body.Mode)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			mode = m
		}

		out, err := tg.Tag(r.Context(), body.Texts, mode)
		if err != nil {
			cfg.Logger.Error("tag request failed", "texts", len(body.Texts), "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
