// Package gateway is the HTTP surface of the search service: one search
// endpoint with schema-validated bodies, plus a health probe.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/basket/searchgate/internal/audit"
	"github.com/basket/searchgate/internal/search"
)

// maxRequestBody caps accepted search request bodies.
const maxRequestBody = 64 << 10

type Config struct {
	Gateway *search.Gateway
	Logger  *slog.Logger
	Version string

	// CacheProbe reports cache backend health for /healthz. Nil means
	// no cache is configured.
	CacheProbe func(ctx context.Context) error
}

type Server struct {
	cfg       Config
	core      atomic.Pointer[search.Gateway]
	validator *bodyValidator
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	v, err := newBodyValidator()
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	s := &Server{cfg: cfg, validator: v}
	s.core.Store(cfg.Gateway)
	return s, nil
}

// SetGateway swaps the search core, used when configuration reloads.
// In-flight requests finish on the core they started with.
func (s *Server) SetGateway(gw *search.Gateway) {
	s.core.Store(gw)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", s.handleSearch)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return s.withRequestID(mux)
}

// withRequestID assigns each request a UUID, echoed in the response
// header and threaded to logs and the audit trail.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(withRequestIDContext(r.Context(), id)))
	})
}

type requestIDKey struct{}

func withRequestIDContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type httpError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body httpError
	body.Error.Code = code
	body.Error.Message = message
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read body")
		return
	}

	if err := s.validator.validate(body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req search.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	requestID := requestIDFrom(r.Context())
	start := time.Now()
	payload, err := s.core.Load().Search(r.Context(), req)
	took := time.Since(start)

	if err != nil {
		s.recordSearch(requestID, req, payload, err, took)
		s.cfg.Logger.Error("search failed", "request_id", requestID, "error", err)
		status := http.StatusBadGateway
		var te *search.TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		writeError(w, status, "provider_error", err.Error())
		return
	}
	s.recordSearch(requestID, req, payload, nil, took)

	// Rejections are ordinary payloads with Error set; callers branch on
	// the code, not the HTTP status.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) recordSearch(requestID string, req search.Request, payload *search.Payload, err error, took time.Duration) {
	e := audit.Entry{
		RequestID: requestID,
		Provider:  string(req.Provider),
		Query:     req.Query,
		TookMs:    took.Milliseconds(),
	}
	switch {
	case err != nil:
		e.Outcome = audit.OutcomeError
	case payload.Error != nil:
		e.Outcome = audit.OutcomeRejected
		e.Code = payload.Error.Code
	case payload.Cached:
		e.Outcome = audit.OutcomeCached
		e.Provider = string(payload.Provider)
		e.Results = payload.Count
	default:
		e.Outcome = audit.OutcomeOK
		e.Provider = string(payload.Provider)
		e.Results = payload.Count
	}
	audit.Record(e)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	cacheOK := true
	cacheDetail := "not configured"
	if s.cfg.CacheProbe != nil {
		cacheDetail = "ok"
		if err := s.cfg.CacheProbe(r.Context()); err != nil {
			cacheOK = false
			cacheDetail = err.Error()
		}
	}

	payload := map[string]any{
		"healthy":  cacheOK,
		"version":  s.cfg.Version,
		"cache":    cacheDetail,
		"rejected": audit.RejectedCount(),
	}
	w.Header().Set("Content-Type", "application/json")
	if !cacheOK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(payload)
}
