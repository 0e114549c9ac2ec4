package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/store"
)

// maxTxRetries bounds optimistic-lock retries on concurrent updates of one id.
const maxTxRetries = 5

// Store keeps each application as a JSON document plus an updated_at index.
type Store struct {
	client *redis.Client
	opts   store.Options
}

var _ store.Store = (*Store)(nil)

// NewStore creates a new Redis store. The store owns client and closes it.
func NewStore(client *redis.Client, opts store.Options) *Store {
	return &Store{
		client: client,
		opts:   opts.WithDefaults(),
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// List returns all applications, most recently updated first
func (s *Store) List(ctx context.Context) ([]domain.JobApplication, error) {
	ids, err := s.client.ZRevRange(ctx, KeyByUpdated, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get application IDs: %w", err)
	}

	out := make([]domain.JobApplication, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ApplicationKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get applications: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a document; skip it.
			continue
		}
		var rec domain.JobApplication
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal application %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get retrieves an application from Redis by ID
func (s *Store) Get(ctx context.Context, id string) (domain.JobApplication, error) {
	return get(ctx, s.client, id)
}

func (s *Store) Create(ctx context.Context, f domain.Fields) (domain.JobApplication, error) {
	rec := f.Record(s.opts.NewID(), s.now())

	data, err := json.Marshal(rec)
	if err != nil {
		return domain.JobApplication{}, fmt.Errorf("failed to marshal application: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, ApplicationKey(rec.ID), data, 0)
		pipe.ZAdd(ctx, KeyByUpdated, redis.Z{Score: score(rec.UpdatedAt), Member: rec.ID})
		return nil
	})
	if err != nil {
		return domain.JobApplication{}, fmt.Errorf("failed to save application: %w", err)
	}
	return rec, nil
}

// Update patches an application under WATCH so concurrent writers never lose fields.
func (s *Store) Update(ctx context.Context, id string, p domain.Patch) (domain.JobApplication, error) {
	key := ApplicationKey(id)
	var out domain.JobApplication

	txf := func(tx *redis.Tx) error {
		rec, err := get(ctx, tx, id)
		if err != nil {
			return err
		}

		p.Apply(&rec)
		rec.UpdatedAt = store.Touch(s.now(), rec.UpdatedAt)

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal application: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, KeyByUpdated, redis.Z{Score: score(rec.UpdatedAt), Member: id})
			return nil
		})
		if err != nil {
			return err
		}
		out = rec
		return nil
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, domain.ErrNotFound) {
			return domain.JobApplication{}, err
		}
		return domain.JobApplication{}, fmt.Errorf("failed to update application: %w", err)
	}
	return domain.JobApplication{}, fmt.Errorf("failed to update application %s: too much contention", id)
}

// Delete removes an application and its index entry
func (s *Store) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, ApplicationKey(id))
		pipe.ZRem(ctx, KeyByUpdated, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, KeyByUpdated).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return int(n), nil
}

func (s *Store) now() time.Time {
	return s.opts.Now().UTC().Truncate(time.Microsecond)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func get(ctx context.Context, c getter, id string) (domain.JobApplication, error) {
	data, err := c.Get(ctx, ApplicationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.JobApplication{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return domain.JobApplication{}, fmt.Errorf("failed to get application: %w", err)
	}

	var rec domain.JobApplication
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.JobApplication{}, fmt.Errorf("failed to unmarshal application: %w", err)
	}
	return rec, nil
}

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}
