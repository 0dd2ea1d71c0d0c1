package http

import (
	"context"
	"net/http"
	"time"

	applog "txboard/internal/log"
	"txboard/internal/middleware/security"
	"txboard/internal/query"

	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// Store is the read side the server needs: queries plus a liveness probe.
type Store interface {
	query.Reader
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	engine *query.Engine
	store  Store
	logger *applog.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store Store, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Discard()
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		engine: query.NewEngine(store),
		store:  store,
		logger: logger.WithComponent(applog.ComponentHTTP),
	}

	mux.HandleFunc("GET /transactions", s.handleTransactions)
	mux.HandleFunc("GET /statistics", s.handleStatistics)
	mux.HandleFunc("GET /bar_chart", s.handleBarChart)
	mux.HandleFunc("GET /pie_chart", s.handlePieChart)
	mux.HandleFunc("GET /combined_data", s.handleCombined)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	var h http.Handler = mux
	h = security.NewHeadersMiddleware(security.APIHeadersConfig()).Middleware(h)
	h = withAccessLog(h)
	h = applog.RequestIDMiddleware(func(r *http.Request) string { return r.Header.Get(headerRequestID) })(h)
	h = applog.Middleware(s.logger)(h)
	h = withRequestID(h)
	s.Handler = h

	return s
}

// withRequestID keeps a caller supplied X-Request-ID or assigns a new UUID,
// and echoes it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
			r.Header.Set(headerRequestID, id)
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// withAccessLog logs request start and completion with status and duration.
func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)
		sl := applog.NewStructuredLogger(applog.FromContext(ctx))

		sl.LogHTTPStart(ctx, r, clientIP)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		sl.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
