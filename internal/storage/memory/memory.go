package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"txboard/internal/core"
	"txboard/internal/query"

	"github.com/shopspring/decimal"
)

// Store keeps transactions in process memory. It implements query.Store.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	items  []core.Transaction
}

func New() *Store {
	return &Store{nextID: 1}
}

// Insert validates every record before storing any, so a bad record leaves
// the store unchanged.
func (s *Store) Insert(_ context.Context, txs []core.Transaction) (int, error) {
	for i, t := range txs {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("transaction %d (%q): %w", i, t.Title, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txs {
		t.ID = s.nextID
		s.nextID++
		s.items = append(s.items, t)
	}
	return len(txs), nil
}

func (s *Store) filter(p query.Predicate) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Transaction
	for _, t := range s.items {
		if p.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Query(_ context.Context, p query.Predicate, page query.Page) ([]core.Transaction, error) {
	return query.Slice(s.filter(p), page), nil
}

func (s *Store) Count(_ context.Context, p query.Predicate) (int64, error) {
	return int64(len(s.filter(p))), nil
}

func (s *Store) SumPrice(_ context.Context, p query.Predicate) (decimal.Decimal, error) {
	var cents int64
	for _, t := range s.filter(p) {
		cents += core.PriceToCents(t.Price)
	}
	return core.PriceFromCents(cents), nil
}

func (s *Store) GroupCount(_ context.Context, p query.Predicate) ([]core.CategoryCount, error) {
	counts := map[string]int64{}
	for _, t := range s.filter(p) {
		counts[t.Category]++
	}
	out := make([]core.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, core.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
