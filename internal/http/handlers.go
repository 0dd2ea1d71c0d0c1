package http

import (
	"net/http"

	applog "txboard/internal/log"
	"txboard/internal/query"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}

	txs, err := s.engine.ListTransactions(r.Context(), params)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newTransactionsResponse(txs))
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query(), true)
	if err != nil {
		writeError(w, r, applog.OpStatistics, err)
		return
	}

	stats, err := s.engine.Statistics(r.Context(), month)
	if err != nil {
		writeError(w, r, applog.OpStatistics, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStatisticsResponse(stats))
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query(), true)
	if err != nil {
		writeError(w, r, applog.OpBarChart, err)
		return
	}

	buckets, err := s.engine.BarChart(r.Context(), month)
	if err != nil {
		writeError(w, r, applog.OpBarChart, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newBarChartResponse(buckets))
}

func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query(), true)
	if err != nil {
		writeError(w, r, applog.OpPieChart, err)
		return
	}

	cats, err := s.engine.PieChart(r.Context(), month)
	if err != nil {
		writeError(w, r, applog.OpPieChart, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newPieChartResponse(cats))
}

// handleCombined ignores search, page and per_page: the listing part is
// always the first default-sized page of the month.
func (s *Server) handleCombined(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query(), true)
	if err != nil {
		writeError(w, r, applog.OpCombined, err)
		return
	}

	report, err := s.engine.Combined(r.Context(), month)
	if err != nil {
		writeError(w, r, applog.OpCombined, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newCombinedResponse(report))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports ready once the store answers, along with its record count.
// An empty store is still ready: a failed seed leaves the API serving empty results.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
		return
	}

	n, err := s.store.Count(ctx, query.All())
	if err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ready", "transactions": n})
}
