// Package seed loads the transaction feed into an empty store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"txboard/internal/core"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// Source yields the records to seed.
type Source interface {
	Fetch(ctx context.Context) ([]core.Transaction, error)
	// Location identifies the source in logs and events.
	Location() string
}

// UpstreamError reports a feed that could not be fetched or decoded.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// item is one entry of the remote feed. Fields such as id, image and sold
// are ignored.
type item struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	DateOfSale  string          `json:"dateOfSale"`
}

// HTTPSource fetches a JSON array of items over HTTP.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: url, Client: http.DefaultClient, Timeout: timeout}
}

func (s *HTTPSource) Location() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]core.Transaction, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &UpstreamError{URL: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, &UpstreamError{
			URL:        s.URL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response %q", strings.TrimSpace(string(snippet))),
		}
	}

	txs, err := Decode(resp.Body)
	if err != nil {
		return nil, &UpstreamError{URL: s.URL, StatusCode: resp.StatusCode, Err: err}
	}
	return txs, nil
}

// Decode reads a JSON array of feed items. Prices may be JSON numbers or
// numeric strings; dates are parsed loosely and reduced to the calendar
// date in the timestamp's own offset.
func Decode(r io.Reader) ([]core.Transaction, error) {
	var items []item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	txs := make([]core.Transaction, 0, len(items))
	for i, it := range items {
		tx, err := it.transaction()
		if err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i, it.Title, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (it item) transaction() (core.Transaction, error) {
	raw := strings.TrimSpace(it.DateOfSale)
	if raw == "" {
		return core.Transaction{}, core.ErrEmptyDate
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse dateOfSale %q: %w", raw, err)
	}
	return core.Transaction{
		Title:       it.Title,
		Description: it.Description,
		Price:       it.Price,
		Category:    it.Category,
		DateOfSale:  core.DateOf(t),
	}, nil
}
