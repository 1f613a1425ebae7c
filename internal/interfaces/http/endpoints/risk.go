package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/quantrun/riskgate/internal/correlation"
	"github.com/quantrun/riskgate/internal/domain"
	"github.com/quantrun/riskgate/internal/gates"
	"github.com/quantrun/riskgate/internal/risk"
)

// ValidateRequest is the POST /v1/risk/validate payload
type ValidateRequest struct {
	Decision domain.TradeDecision     `json:"decision"`
	Context  *domain.PortfolioContext `json:"context"`
}

// VaRRequest is the POST /v1/risk/var payload
type VaRRequest struct {
	VenueA risk.VenueInput `json:"venue_a"`
	VenueB risk.VenueInput `json:"venue_b"`
}

// CorrelationVenue is one venue's slice of a correlation request
type CorrelationVenue struct {
	Venue    string               `json:"venue"`
	Holdings []string             `json:"holdings"`
	History  map[string][]float64 `json:"history"`
}

// CorrelationRequest is the POST /v1/risk/correlation payload
type CorrelationRequest struct {
	VenueA CorrelationVenue `json:"venue_a"`
	VenueB CorrelationVenue `json:"venue_b"`
}

// HealthHandler reports liveness and build version
func HealthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	}
}

// ValidateHandler runs one trade decision through the gatekeeper
func ValidateHandler(g *gates.RiskGatekeeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request: "+err.Error(), http.StatusBadRequest)
			return
		}

		verdict, err := g.ValidateTrade(req.Decision, req.Context)
		if err != nil {
			// Backtest timestamp corruption is the only error path; it is a
			// client data problem, not a server fault.
			if errors.Is(err, gates.ErrTimestampParse) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			log.Error().Err(err).Msg("trade validation failed")
			http.Error(w, "validation failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, verdict)
	}
}

// VaRHandler computes dual-venue historical VaR for a posted snapshot
func VaRHandler(calc *risk.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VaRRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request: "+err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, calc.DualVenue(req.VenueA, req.VenueB))
	}
}

// CorrelationHandler runs the dual-venue correlation analysis
func CorrelationHandler(an *correlation.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CorrelationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request: "+err.Error(), http.StatusBadRequest)
			return
		}
		report := an.AnalyzeDualVenue(
			req.VenueA.Holdings, req.VenueA.History, req.VenueA.Venue,
			req.VenueB.Holdings, req.VenueB.History, req.VenueB.Venue,
		)
		writeJSON(w, http.StatusOK, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
