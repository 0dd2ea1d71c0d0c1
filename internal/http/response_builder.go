package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/query"
)

type transactionResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
	DateOfSale  string      `json:"dateOfSale"`
}

type statisticsResponse struct {
	TotalSales   json.Number `json:"total_sales"`
	TotalItems   int64       `json:"total_items"`
	NotSoldItems int64       `json:"not_sold_items"`
}

type bucketResponse struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type categoryResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type combinedResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Statistics   statisticsResponse    `json:"statistics"`
	BarChart     []bucketResponse      `json:"bar_chart"`
	PieChart     []categoryResponse    `json:"pie_chart"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Prices are emitted as JSON numbers using the exact decimal text.
func newTransactionsResponse(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Price:       json.Number(t.Price.String()),
			Category:    t.Category,
			DateOfSale:  t.DateOfSale.String(),
		})
	}
	return out
}

func newStatisticsResponse(s core.Statistics) statisticsResponse {
	return statisticsResponse{
		TotalSales:   json.Number(s.TotalSales.String()),
		TotalItems:   s.TotalItems,
		NotSoldItems: s.NotSoldItems,
	}
}

func newBarChartResponse(buckets []core.BucketCount) []bucketResponse {
	out := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketResponse{Range: b.Range.Label(), Count: b.Count})
	}
	return out
}

func newPieChartResponse(cats []core.CategoryCount) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{Category: c.Category, Count: c.Count})
	}
	return out
}

func newCombinedResponse(c query.Combined) combinedResponse {
	return combinedResponse{
		Transactions: newTransactionsResponse(c.Transactions),
		Statistics:   newStatisticsResponse(c.Statistics),
		BarChart:     newBarChartResponse(c.BarChart),
		PieChart:     newPieChartResponse(c.PieChart),
	}
}

// writeJSON sends v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write response", applog.FieldError, err)
	}
}

// writeError maps err to a status code. Client errors echo their message;
// anything else is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var pe *paramError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: pe.Message})
	case errors.Is(err, core.ErrUnknownMonth), errors.Is(err, query.ErrInvalidPage):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		ctx := r.Context()
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "Request failed", err, applog.ComponentQuery, op, nil)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
