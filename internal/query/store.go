package query

import (
	"context"

	"txboard/internal/core"

	"github.com/shopspring/decimal"
)

// Reader is the read side of a transaction store.
type Reader interface {
	// Query returns matching transactions ordered by id.
	Query(ctx context.Context, p Predicate, page Page) ([]core.Transaction, error)
	Count(ctx context.Context, p Predicate) (int64, error)
	// SumPrice sums the price of matching transactions; zero when none match.
	SumPrice(ctx context.Context, p Predicate) (decimal.Decimal, error)
	// GroupCount counts matching transactions per category, ordered by category.
	GroupCount(ctx context.Context, p Predicate) ([]core.CategoryCount, error)
}

// Writer inserts transactions. Insert is all-or-nothing.
type Writer interface {
	Insert(ctx context.Context, txs []core.Transaction) (int, error)
}

// Store is the full contract implemented by the sqlite and memory backends.
type Store interface {
	Reader
	Writer
	Ping(ctx context.Context) error
	Close() error
}
