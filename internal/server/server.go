// Package server exposes the points table and position calculations over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/iwvelando/standings-forecast/internal/search"
	"github.com/iwvelando/standings-forecast/internal/standings"
	"github.com/iwvelando/standings-forecast/pkg/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestObserver is told about every served request.
type RequestObserver interface {
	ObserveRequest(route string, status int)
}

type nopRequestObserver struct{}

func (nopRequestObserver) ObserveRequest(string, int) {}

type requestIDKey struct{}

type handler struct {
	logger   *zap.Logger
	engine   *search.Engine
	cfg      *Config
	schema   *gojsonschema.Schema
	limiter  *rate.Limiter
	observer RequestObserver
	gatherer prometheus.Gatherer
}

// Option configures the handler.
type Option func(*handler)

// WithRequestObserver reports each served request to o.
func WithRequestObserver(o RequestObserver) Option {
	return func(h *handler) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithGatherer mounts /metrics serving g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *handler) { h.gatherer = g }
}

type errorResponse struct {
	Error       string   `json:"error"`
	Details     []string `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	RequestID   string   `json:"requestId,omitempty"`
}

// NewHandler constructs the router serving the standings API.
func NewHandler(logger *zap.Logger, engine *search.Engine, cfg *Config, opts ...Option) (http.Handler, error) {
	if engine == nil {
		return nil, errors.New("search engine cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
		if err := cfg.normalize(); err != nil {
			return nil, err
		}
	}

	schema, err := compileRequestSchema()
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	h := &handler{
		logger:   logger,
		engine:   engine,
		cfg:      cfg,
		schema:   schema,
		limiter:  rate.NewLimiter(limit, cfg.RateBurst),
		observer: nopRequestObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(h.requestID)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", h.handleHealth)
	r.Get("/api/version", h.handleVersion)
	r.Get("/points-table", h.handlePointsTable)
	r.With(h.rateLimit).Post("/calculate-nrr", h.handleCalculate)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	return r, nil
}

func (h *handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		h.observer.ObserveRequest(route, status)
		h.logger.Info("request served",
			zap.String("op", "server.accessLog"),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestId", requestIDFrom(r.Context())),
		)
	})
}

func (h *handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow() {
			h.respondErrorWithOp(w, r, http.StatusTooManyRequests, errorResponse{
				Error: "rate limit exceeded",
			}, "server.rateLimit")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": constants.ServiceName,
		"teams":   h.engine.Table().Len(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.cfg.Version,
	})
}

func (h *handler) handlePointsTable(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engine.Table().Sorted())
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes()))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds limit of %d bytes", h.cfg.MaxBodyBytes()),
			}, op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to read request body: %v", err),
		}, op)
		return
	}

	if err := validateBody(h.schema, body); err != nil {
		resp := errorResponse{Error: err.Error()}
		var se *schemaError
		if errors.As(err, &se) {
			resp.Details = se.details
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, resp, op)
		return
	}

	var payload calculateRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to decode request: %v", err),
		}, op)
		return
	}

	req, err := payload.toSearch()
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()}, op)
		return
	}

	result, err := h.engine.Calculate(r.Context(), req)
	if err != nil {
		var notFound *standings.TeamNotFoundError
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			// The timeout middleware owns the response once the context is done.
			h.logger.Warn("calculation abandoned",
				zap.String("op", op),
				zap.String("requestId", requestIDFrom(r.Context())),
				zap.Error(err),
			)
		case errors.As(err, &notFound):
			h.respondErrorWithOp(w, r, http.StatusBadRequest, errorResponse{
				Error:       err.Error(),
				Suggestions: notFound.Suggestions,
			}, op)
		case errors.Is(err, search.ErrInvalidRequest):
			h.respondErrorWithOp(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()}, op)
		default:
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, errorResponse{
				Error: "calculation failed",
			}, op)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, resp errorResponse, op string) {
	resp.RequestID = requestIDFrom(r.Context())

	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", resp.Error),
		zap.String("requestId", resp.RequestID),
	)

	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
