package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
)

// Store is the durable record collection behind /api/jobs.
// Missing ids are reported as domain.ErrNotFound.
type Store interface {
	// List returns every record, most recently updated first.
	List(ctx context.Context) ([]domain.JobApplication, error)
	Get(ctx context.Context, id string) (domain.JobApplication, error)
	// Create expects prepared fields (see domain.Fields.Prepare).
	Create(ctx context.Context, f domain.Fields) (domain.JobApplication, error)
	// Update applies only the fields present in p and bumps updated_at.
	Update(ctx context.Context, id string, p domain.Patch) (domain.JobApplication, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Options are shared by the backends. Zero values fall back to real time and UUIDv4.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

func (o Options) WithDefaults() Options {
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.NewString() }
	}
	return o
}

// Touch returns a timestamp strictly after prev, so consecutive writes keep a total order.
func Touch(now time.Time, prev time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
