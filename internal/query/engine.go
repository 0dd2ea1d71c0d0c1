package query

import (
	"context"
	"fmt"

	"txboard/internal/core"
	applog "txboard/internal/log"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ListParams drives the transaction listing. Month 0 disables the month
// filter and an empty Search disables the search filter.
type ListParams struct {
	Month  int
	Search string
	Page   Page
}

// Combined is the convenience report for one month.
type Combined struct {
	Transactions []core.Transaction
	Statistics   core.Statistics
	BarChart     []core.BucketCount
	PieChart     []core.CategoryCount
}

// Engine translates request parameters into store reads.
type Engine struct {
	store Reader
}

func NewEngine(store Reader) *Engine {
	return &Engine{store: store}
}

func checkMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d", core.ErrUnknownMonth, month)
	}
	return nil
}

// Filter builds the listing predicate: month AND (title OR description OR price).
func (p ListParams) Filter() Predicate {
	var parts []Predicate
	if p.Month != 0 {
		parts = append(parts, MonthIs(p.Month))
	}
	if p.Search != "" {
		parts = append(parts, Search(p.Search))
	}
	if len(parts) == 0 {
		return All()
	}
	return And(parts...)
}

// ListTransactions returns one page of matching transactions.
func (e *Engine) ListTransactions(ctx context.Context, params ListParams) ([]core.Transaction, error) {
	if params.Month != 0 {
		if err := checkMonth(params.Month); err != nil {
			return nil, err
		}
	}
	if err := params.Page.Validate(); err != nil {
		return nil, err
	}

	txs, err := e.store.Query(ctx, params.Filter(), params.Page)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	fields := applog.NewFields().
		WithListing(params.Month, params.Search, params.Page.Number, params.Page.Size).
		WithOperation(applog.OpList)
	fields[applog.FieldCount] = len(txs)
	applog.FromContext(ctx).WithComponent(applog.ComponentQuery).
		DebugContext(ctx, "Transactions listed", fields.ToSlice()...)

	return txs, nil
}

// Statistics computes total sales, item count and not-sold count for a month.
func (e *Engine) Statistics(ctx context.Context, month int) (core.Statistics, error) {
	if err := checkMonth(month); err != nil {
		return core.Statistics{}, err
	}
	inMonth := MonthIs(month)

	total, err := e.store.SumPrice(ctx, inMonth)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("sum sales (month=%d): %w", month, err)
	}
	items, err := e.store.Count(ctx, inMonth)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("count items (month=%d): %w", month, err)
	}
	notSold, err := e.store.Count(ctx, And(inMonth, PriceIs(decimal.Zero)))
	if err != nil {
		return core.Statistics{}, fmt.Errorf("count not sold items (month=%d): %w", month, err)
	}

	return core.Statistics{
		TotalSales:   total,
		TotalItems:   items,
		NotSoldItems: notSold,
	}, nil
}

// BarChart counts the month's transactions in each fixed price range.
func (e *Engine) BarChart(ctx context.Context, month int) ([]core.BucketCount, error) {
	if err := checkMonth(month); err != nil {
		return nil, err
	}
	inMonth := MonthIs(month)

	buckets := make([]core.BucketCount, 0, len(core.PriceRanges))
	for _, r := range core.PriceRanges {
		n, err := e.store.Count(ctx, And(inMonth, PriceIn(r)))
		if err != nil {
			return nil, fmt.Errorf("count range %s (month=%d): %w", r.Label(), month, err)
		}
		buckets = append(buckets, core.BucketCount{Range: r, Count: n})
	}
	return buckets, nil
}

// PieChart counts the month's transactions per category. Categories without
// matches are omitted.
func (e *Engine) PieChart(ctx context.Context, month int) ([]core.CategoryCount, error) {
	if err := checkMonth(month); err != nil {
		return nil, err
	}
	counts, err := e.store.GroupCount(ctx, MonthIs(month))
	if err != nil {
		return nil, fmt.Errorf("group by category (month=%d): %w", month, err)
	}
	if counts == nil {
		counts = []core.CategoryCount{}
	}
	return counts, nil
}

// Combined gathers the first listing page (no search), statistics, bar chart
// and pie chart for a month. The four reads run concurrently.
func (e *Engine) Combined(ctx context.Context, month int) (Combined, error) {
	if err := checkMonth(month); err != nil {
		return Combined{}, err
	}

	var out Combined
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := e.ListTransactions(gctx, ListParams{Month: month, Page: FirstPage()})
		out.Transactions = txs
		return err
	})
	g.Go(func() error {
		stats, err := e.Statistics(gctx, month)
		out.Statistics = stats
		return err
	})
	g.Go(func() error {
		bars, err := e.BarChart(gctx, month)
		out.BarChart = bars
		return err
	})
	g.Go(func() error {
		pie, err := e.PieChart(gctx, month)
		out.PieChart = pie
		return err
	})
	if err := g.Wait(); err != nil {
		return Combined{}, fmt.Errorf("combined report (month=%d): %w", month, err)
	}
	return out, nil
}
