// CLAUDE:SUMMARY Chi static site server with clean-URL resolution for page documents.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// newSiteRouter serves a static page tree with clean URLs: "/" and any
// path ending in "/" resolve to that directory's index.html, so the server
// produces exactly the documents the navigation engine expects to fetch.
func newSiteRouter(dir string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		p := path.Clean(req.URL.Path)
		if strings.Contains(p, "..") {
			http.NotFound(w, req)
			return
		}
		fsPath := filepath.Join(dir, filepath.FromSlash(p))

		info, err := os.Stat(fsPath)
		if err == nil && info.IsDir() {
			fsPath = filepath.Join(fsPath, "index.html")
			info, err = os.Stat(fsPath)
		}
		if err != nil {
			http.NotFound(w, req)
			return
		}
		if info.IsDir() {
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, fsPath)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			logger.Debug("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start))
		})
	}
}

func runServe(ctx context.Context, logger *slog.Logger, cfg *Config) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newSiteRouter(cfg.SiteDir, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving site", "dir", cfg.SiteDir, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
