package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
)

// RepairReport counts what one Repair pass fixed.
type RepairReport struct {
	Dangling int // index entries whose document is gone
	Orphans  int // documents that were missing from the index
}

func (r RepairReport) Total() int { return r.Dangling + r.Orphans }

// Repair brings the updated_at index back in line with the stored documents.
// Both directions are fixed: dangling ids are removed and unindexed documents are added.
func (s *Store) Repair(ctx context.Context) (RepairReport, error) {
	var rep RepairReport

	ids, err := s.client.ZRange(ctx, KeyByUpdated, 0, -1).Result()
	if err != nil {
		return rep, fmt.Errorf("failed to read index: %w", err)
	}
	indexed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		indexed[id] = struct{}{}
	}

	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = ApplicationKey(id)
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return rep, fmt.Errorf("failed to read applications: %w", err)
		}
		var dangling []any
		for i, v := range values {
			if v == nil {
				dangling = append(dangling, ids[i])
			}
		}
		if len(dangling) > 0 {
			if err := s.client.ZRem(ctx, KeyByUpdated, dangling...).Err(); err != nil {
				return rep, fmt.Errorf("failed to prune index: %w", err)
			}
			rep.Dangling = len(dangling)
		}
	}

	iter := s.client.Scan(ctx, 0, KeyPrefixApplication+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := ExtractApplicationID(iter.Val())
		if err != nil {
			continue
		}
		if _, ok := indexed[id]; ok {
			continue
		}
		added, err := s.reindex(ctx, id)
		if err != nil {
			return rep, err
		}
		if !added {
			continue
		}
		rep.Orphans++
	}
	if err := iter.Err(); err != nil {
		return rep, fmt.Errorf("failed to scan applications: %w", err)
	}
	return rep, nil
}

// reindex adds id back to the index. The document is read under WATCH, so a
// Delete racing the repair aborts the write instead of leaving a dangling entry.
// It reports false when the document is gone.
func (s *Store) reindex(ctx context.Context, id string) (bool, error) {
	key := ApplicationKey(id)
	added := false

	txf := func(tx *redis.Tx) error {
		rec, err := get(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZAdd(ctx, KeyByUpdated, redis.Z{Score: score(rec.UpdatedAt), Member: id})
			return nil
		})
		if err != nil {
			return err
		}
		added = true
		return nil
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return added, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, domain.ErrNotFound):
			return false, nil
		default:
			return false, fmt.Errorf("failed to index application %s: %w", id, err)
		}
	}
	return false, fmt.Errorf("failed to index application %s: too much contention", id)
}
