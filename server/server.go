package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/poiesic/reportgen/core"
	"github.com/poiesic/reportgen/report"
	"github.com/poiesic/reportgen/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	defaultAddr         = ":8080"
	defaultRatePerSec   = 2.0
	defaultBurst        = 5
	defaultListLimit    = 20
	maxListLimit        = 100
	maxRequestBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reporter is what the server needs from the report service.
type Reporter interface {
	Generate(ctx context.Context, req *core.Request) (*core.Report, error)
	// Archive returns nil when reports are not kept.
	Archive() storage.ReportRepository
}

// Server serves the reports API.
type Server struct {
	reporter Reporter
	addr     string
	limiter  *rate.Limiter
	handler  http.Handler
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Default is ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithRateLimit sets the sustained request rate and burst of the /api routes.
// A non-positive rate disables limiting.
func WithRateLimit(reqPerSec float64, burst int) Option {
	return func(s *Server) {
		if reqPerSec <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(reqPerSec), burst)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a server for reporter.
func New(reporter Reporter, opts ...Option) *Server {
	s := &Server{
		reporter: reporter,
		addr:     defaultAddr,
		limiter:  rate.NewLimiter(rate.Limit(defaultRatePerSec), defaultBurst),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")

	api := http.NewServeMux()
	api.HandleFunc("POST /api/reports", s.handleGenerate)
	api.HandleFunc("GET /api/reports", s.handleList)
	api.HandleFunc("GET /api/reports/{id}", s.handleGet)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.rateLimit(api))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = mux
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := core.DecodeRequest(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rep, err := s.reporter.Generate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		case errors.Is(err, report.ErrGenerationFailed):
			s.logger.Error("report generation failed", "err", err)
			writeError(w, http.StatusBadGateway, "MODEL_ERROR", "report generation failed")
		default:
			s.logger.Error("unexpected error generating report", "err", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	archive := s.reporter.Archive()
	if archive == nil {
		writeError(w, http.StatusNotFound, "NO_ARCHIVE", "report archive is not configured")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	archived, err := archive.GetRecentReports(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing reports", "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	archive := s.reporter.Archive()
	if archive == nil {
		writeError(w, http.StatusNotFound, "NO_ARCHIVE", "report archive is not configured")
		return
	}

	archived, err := archive.GetReport(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "report not found")
			return
		}
		s.logger.Error("fetching report", "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("writing response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}
