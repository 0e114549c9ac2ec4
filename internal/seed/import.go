package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/store"
)

// Import creates every entry in an empty store and returns how many were created.
// A store that already holds applications is left untouched. Invalid entries
// are skipped and reported together once the rest are in.
func Import(ctx context.Context, s store.Store, entries []domain.Fields, log logger.Logger) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: count: %w", err)
	}
	if n > 0 {
		log.Info("store not empty, skipping seed", logger.Int("applications", n))
		return 0, nil
	}

	var (
		created int
		errs    []error
	)
	for i, e := range entries {
		f, err := e.Prepare()
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if _, err := s.Create(ctx, f); err != nil {
			return created, fmt.Errorf("seed: create entry %d: %w", i, err)
		}
		created++
	}

	log.Info("seeded applications",
		logger.Int("created", created),
		logger.Int("skipped", len(errs)))
	return created, errors.Join(errs...)
}

// FromFile loads path and imports it. An empty path is a no-op.
func FromFile(ctx context.Context, path string, s store.Store, log logger.Logger) (int, error) {
	if path == "" {
		return 0, nil
	}
	entries, err := NewLoader(path).Load()
	if err != nil {
		return 0, err
	}
	return Import(ctx, s, entries, log)
}
