package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"txboard/internal/core"
	"txboard/internal/query"
	"txboard/internal/storage/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func tx(title, desc, price, category string, y, m, d int) core.Transaction {
	return core.Transaction{
		Title:       title,
		Description: desc,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		DateOfSale:  core.NewDate(y, m, d),
	}
}

// newTestServer serves a small fixture: three March sales priced 0, 150
// and 999, plus records in other months.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.New()
	_, err := store.Insert(context.Background(), []core.Transaction{
		tx("Gold Ring", "Solid gold petite micropave", "0", "jewelery", 2022, 3, 2),
		tx("Fjallraven Backpack", "Your perfect pack for everyday use", "150", "men's clothing", 2021, 3, 15),
		tx("Gaming Laptop", "Fast machine", "999", "electronics", 2022, 3, 27),
		tx("Mens Casual T-Shirt", "Slim-fitting style", "44.6", "men's clothing", 2021, 11, 27),
		tx("Rain Jacket", "Lightweight and 100.5% waterproof", "100.5", "women's clothing", 2022, 1, 10),
	})
	if err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return NewServer(":0", store, nil)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return v
}

type failingStore struct{ err error }

func (f failingStore) Query(context.Context, query.Predicate, query.Page) ([]core.Transaction, error) {
	return nil, f.err
}
func (f failingStore) Count(context.Context, query.Predicate) (int64, error) { return 0, f.err }
func (f failingStore) SumPrice(context.Context, query.Predicate) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}
func (f failingStore) GroupCount(context.Context, query.Predicate) ([]core.CategoryCount, error) {
	return nil, f.err
}
func (f failingStore) Ping(context.Context) error { return f.err }

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv.Handler, http.MethodGet, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("/healthz status=%d", rr.Code)
	}
	if body := decodeBody[map[string]string](t, rr); body["status"] != "ok" {
		t.Errorf("/healthz body = %v", body)
	}

	rr = do(t, srv.Handler, http.MethodGet, "/readyz")
	if rr.Code != http.StatusOK {
		t.Fatalf("/readyz status=%d", rr.Code)
	}
	body := decodeBody[map[string]any](t, rr)
	if body["status"] != "ready" || body["transactions"] != float64(5) {
		t.Errorf("/readyz body = %v", body)
	}
}

func TestReadyWithEmptyStore(t *testing.T) {
	srv := NewServer(":0", memory.New(), nil)

	rr := do(t, srv.Handler, http.MethodGet, "/readyz")
	if rr.Code != http.StatusOK {
		t.Fatalf("/readyz status=%d, want 200", rr.Code)
	}
	body := decodeBody[map[string]any](t, rr)
	if body["status"] != "ready" || body["transactions"] != float64(0) {
		t.Errorf("/readyz body = %v", body)
	}
}

func TestReadyFailsWhenStoreIsDown(t *testing.T) {
	srv := NewServer(":0", failingStore{err: errors.New("disk gone")}, nil)

	rr := do(t, srv.Handler, http.MethodGet, "/readyz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("/readyz status=%d, want 503", rr.Code)
	}
}

func TestStoreErrorIsGeneric500(t *testing.T) {
	srv := NewServer(":0", failingStore{err: errors.New("SQLITE_BUSY: database is locked")}, nil)

	for _, path := range []string{
		"/transactions",
		"/statistics?month=March",
		"/bar_chart?month=March",
		"/pie_chart?month=March",
		"/combined_data?month=March",
	} {
		rr := do(t, srv.Handler, http.MethodGet, path)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("%s status=%d, want 500", path, rr.Code)
			continue
		}
		body := decodeBody[errorResponse](t, rr)
		if body.Error != "internal server error" {
			t.Errorf("%s error = %q, want generic message", path, body.Error)
		}
		if strings.Contains(rr.Body.String(), "SQLITE_BUSY") {
			t.Errorf("%s leaks store error: %s", path, rr.Body.String())
		}
	}
}

func TestMiddleware(t *testing.T) {
	srv := newTestServer(t)

	t.Run("assigns request id", func(t *testing.T) {
		rr := do(t, srv.Handler, http.MethodGet, "/healthz")
		id := rr.Header().Get(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("X-Request-ID = %q, want a UUID", id)
		}
	})

	t.Run("echoes caller request id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(headerRequestID, "abc-123")
		srv.Handler.ServeHTTP(rr, req)
		if got := rr.Header().Get(headerRequestID); got != "abc-123" {
			t.Errorf("X-Request-ID = %q, want abc-123", got)
		}
	})

	t.Run("security headers", func(t *testing.T) {
		rr := do(t, srv.Handler, http.MethodGet, "/statistics?month=March")
		want := map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "DENY",
			"Content-Type":           "application/json",
		}
		for k, v := range want {
			if got := rr.Header().Get(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		rr := do(t, srv.Handler, http.MethodPost, "/transactions")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST /transactions status=%d, want 405", rr.Code)
		}
	})
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct peer", "203.0.113.7:5555", "", "203.0.113.7"},
		{"untrusted peer cannot forward", "203.0.113.7:5555", "198.51.100.1", "203.0.113.7"},
		{"trusted proxy forwards", "10.0.0.2:5555", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"trusted proxy bad header", "127.0.0.1:5555", "not-an-ip", "127.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(req); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
