package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

const (
	// defaultServeAddr is the default listen address for mosaic serve.
	defaultServeAddr = ":8080"

	// maxRequestBody caps layout request bodies at 1 MiB.
	maxRequestBody = 1 << 20

	// requestTimeout bounds request handling, including layout computation.
	requestTimeout = 30 * time.Second

	// shutdownTimeout bounds the drain period after SIGINT.
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command exposing the layout engine over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		cacheCfg cacheConfig
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine as an HTTP API",
		Long: `Serve the layout engine as an HTTP API.

Endpoints:
  POST /api/v1/layout   compute a layout from a JSON manifest
  GET  /api/v1/version  build information
  GET  /healthz         liveness check

Example:
  curl -s -X POST localhost:8080/api/v1/layout \
    -d '{"canvas":{"width":400,"height":300},"item":[{"label":"a","weight":3},{"label":"b","weight":1}]}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, cacheCfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cacheCfg.register(cmd)

	return cmd
}

// runServe blocks until the context is cancelled or the listener fails.
func (c *CLI) runServe(ctx context.Context, addr string, cacheCfg cacheConfig) error {
	runner, err := c.newRunner(ctx, cacheCfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &server{runner: runner, logger: c.Logger}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	c.Logger.Info("listening", "addr", addr, "version", buildinfo.Short())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		c.Logger.Info("server stopped")
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// HTTP Server
// =============================================================================

// server bundles the HTTP handlers with their dependencies.
type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// routes assembles the chi router with middleware and endpoints.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Post("/layout", s.handleLayout)
	})

	return r
}

// requestIDKey is the context key for the HTTP request ID.
const requestIDKey ctxKey = 1

// requestID assigns each request a UUID, echoing any X-Request-ID the
// caller supplied.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// requestIDFrom returns the request ID stored by the requestID middleware.
func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// logRequests emits one structured log line per request and attaches a
// request-scoped logger to the context for the handlers.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := s.logger.With("request", requestIDFrom(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), reqLogger)))

		reqLogger.Info("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// =============================================================================
// Handlers
// =============================================================================

// layoutRequest is the POST /api/v1/layout body: a manifest in its JSON
// form plus optional layout options.
type layoutRequest struct {
	manifest.Manifest
	Options layoutOptions `json:"options"`
}

// layoutOptions mirrors the geometry knobs of pipeline.Options. The canvas
// comes from the manifest itself.
type layoutOptions struct {
	Padding  float64 `json:"padding,omitempty"`
	MaxDepth int     `json:"max_depth,omitempty"`
	MinTile  float64 `json:"min_tile,omitempty"`
	Flat     bool    `json:"flat,omitempty"`
}

// handleLayout computes a layout for the posted manifest and returns the
// tiling document.
func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.respondError(w, r, apperrors.Wrap(apperrors.ErrCodeParse, err, "decode request body"))
		return
	}

	opts := pipeline.Options{
		Flat:     req.Options.Flat,
		Padding:  req.Options.Padding,
		MaxDepth: req.Options.MaxDepth,
		MinTile:  req.Options.MinTile,
		Format:   pipeline.FormatJSON,
		Logger:   loggerFromContext(r.Context()),
	}

	result, err := s.runner.RunManifest(r.Context(), &req.Manifest, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result.Tiling)
}

// handleVersion returns build information.
func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// handleHealth is the liveness check.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Responses
// =============================================================================

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "code", code, "err", err)
	}
	s.respondJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	}})
}

// statusForCode maps structured error codes to HTTP statuses.
func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidCanvas, apperrors.ErrCodeInvalidWeight,
		apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeInvalidManifest, apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeParse:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
