package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Neumenon/statelink/config"
	"github.com/Neumenon/statelink/registry"
	"github.com/Neumenon/statelink/urlstate"
)

// server is the HTTP share service.
type server struct {
	reg    *registry.Registry
	cfg    *config.Config
	logger *slog.Logger
}

func newServer(cfg *config.Config, reg *registry.Registry, logger *slog.Logger) *server {
	return &server{reg: reg, cfg: cfg, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/v1/tools", s.handleList)
	r.Post("/v1/tools/{tool}/link", s.handleLink)
	r.Get("/v1/tools/{tool}/state", s.handleState)
	return r
}

// --- Handlers ---

type toolInfo struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Keys []string `json:"keys"`
}

func (s *server) handleList(w http.ResponseWriter, _ *http.Request) {
	tools := s.reg.List()
	out := make([]toolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, toolInfo{Name: t.Name(), Path: t.Path(), Keys: t.Keys()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleLink(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "tool")
	if _, err := s.reg.Lookup(name); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	link, err := s.reg.Link(name, body, s.cfg.BaseURL)
	switch {
	case errors.Is(err, registry.ErrInvalidState):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	etag := `"` + link.Fingerprint + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	tool, err := s.reg.Lookup(chi.URLParam(r, "tool"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	p := urlstate.ParseParams(r.URL.RawQuery)
	s.logger.Debug("decode state", "tool", tool.Name(), "params", p.Len(), "keys", p.Keys())
	state, ok, err := tool.DecodeJSON(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(state)
}

// --- Middleware ---

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// --- Lifecycle ---

func (e *env) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              e.cfg.Listen,
		Handler:           newServer(e.cfg, e.reg, e.logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("server starting", "addr", e.cfg.Listen, "tools", len(e.reg.List()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	e.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	e.logger.Info("server stopped")
	return nil
}
