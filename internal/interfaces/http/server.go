// Package http exposes RiskGate's diagnostic surface: health, Prometheus
// metrics, and one-shot risk evaluations over the pure engine. It is an
// operations aid, not a trading interface.
package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/quantrun/riskgate/internal/correlation"
	"github.com/quantrun/riskgate/internal/gates"
	"github.com/quantrun/riskgate/internal/interfaces/http/endpoints"
	"github.com/quantrun/riskgate/internal/risk"
	"github.com/quantrun/riskgate/internal/telemetry"
)

// Server wires the diagnostic endpoints over the engine components
type Server struct {
	router  *mux.Router
	limiter *rate.Limiter
}

// NewServer builds the router. The rate limiter guards the evaluation
// endpoints against accidental load from dashboards or scripts; /health and
// /metrics are never limited.
func NewServer(g *gates.RiskGatekeeper, calc *risk.Calculator, an *correlation.Analyzer, metrics *telemetry.Registry, version string) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		limiter: rate.NewLimiter(rate.Limit(50), 100),
	}

	s.router.HandleFunc("/health", endpoints.HealthHandler(version)).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1/risk").Subrouter()
	v1.Use(s.limit)
	v1.HandleFunc("/validate", endpoints.ValidateHandler(g)).Methods(http.MethodPost)
	v1.HandleFunc("/var", endpoints.VaRHandler(calc)).Methods(http.MethodPost)
	v1.HandleFunc("/correlation", endpoints.CorrelationHandler(an)).Methods(http.MethodPost)

	return s
}

// Handler returns the root handler for mounting or testing
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the diagnostic surface
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("diagnostic server listening")
	return srv.ListenAndServe()
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
