package seed

import (
	"context"
	"fmt"

	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/query"
)

// Store is what seeding needs from the transaction store.
type Store interface {
	Count(ctx context.Context, p query.Predicate) (int64, error)
	Insert(ctx context.Context, txs []core.Transaction) (int, error)
}

// Publisher announces a completed seeding run.
type Publisher interface {
	PublishSeedCompleted(ctx context.Context, count int, source string) error
}

// Result describes one seeding run.
type Result struct {
	Skipped  bool
	Existing int64
	Inserted int
}

type Seeder struct {
	store     Store
	source    Source
	publisher Publisher
	logger    *applog.Logger
}

// New builds a Seeder. publisher may be nil.
func New(store Store, source Source, publisher Publisher, logger *applog.Logger) *Seeder {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Seeder{
		store:     store,
		source:    source,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentSeed),
	}
}

// Run populates the store from the source unless it already holds records.
// The insert is atomic: a failed run leaves the store empty.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	existing, err := s.store.Count(ctx, query.All())
	if err != nil {
		return Result{}, fmt.Errorf("count existing transactions: %w", err)
	}
	if existing > 0 {
		s.logger.InfoContext(ctx, "Store already populated, skipping seed",
			applog.FieldCount, existing)
		return Result{Skipped: true, Existing: existing}, nil
	}

	source := s.source.Location()
	s.logger.InfoContext(ctx, "Seeding transactions", applog.FieldSource, source)

	txs, err := s.source.Fetch(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch seed data: %w", err)
	}

	n, err := s.store.Insert(ctx, txs)
	if err != nil {
		return Result{}, fmt.Errorf("insert seed data: %w", err)
	}

	s.logger.InfoContext(ctx, "Seed completed", applog.NewFields().
		WithSeed(source, n).
		WithOperation(applog.OpSeed).
		ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishSeedCompleted(ctx, n, source); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish seed event",
				applog.FieldError, err,
				applog.FieldOperation, applog.OpPublish)
		}
	}

	return Result{Inserted: n}, nil
}
