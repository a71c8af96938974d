package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SelectionRepo keeps each user's in-progress seat selection for a
// showtime in Redis.  Only seat ids are stored; prices and types are
// re-read from a fresh availability snapshot when the selection is
// restored.  Keys expire after ttl of inactivity.
type SelectionRepo struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// ErrSelectionContended is returned by Update when concurrent writers kept
// changing the selection for every attempt.
var ErrSelectionContended = errors.New("selection changed concurrently")

const maxUpdateAttempts = 5

// NewSelectionRepo returns a SelectionRepo.  A non-positive ttl defaults to
// 15 minutes.
func NewSelectionRepo(rdb *redis.Client, ttl time.Duration) *SelectionRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SelectionRepo{rdb: rdb, ttl: ttl, prefix: "selection"}
}

func (r *SelectionRepo) key(userID, showtimeID string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, userID, showtimeID)
}

func decodeIDs(raw []byte) ([]string, error) {
	return decodeIDs(raw)
}

// Load returns the stored seat ids in selection order.  A missing key
// yields an empty slice.
func (r *SelectionRepo) Load(ctx context.Context, userID, showtimeID string) ([]string, error) {
	raw, err := r.rdb.Get(ctx, r.key(userID, showtimeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	return ids, nil
}

// Save replaces the stored selection and refreshes its expiry.  Saving an
// empty selection deletes the key.
func (r *SelectionRepo) Save(ctx context.Context, userID, showtimeID string, ids []string) error {
	if len(ids) == 0 {
		return r.Clear(ctx, userID, showtimeID)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(userID, showtimeID), raw, r.ttl).Err()
}

// Clear removes the stored selection.
func (r *SelectionRepo) Clear(ctx context.Context, userID, showtimeID string) error {
	return r.rdb.Del(ctx, r.key(userID, showtimeID)).Err()
}

// Update applies fn to the stored selection under WATCH, so a concurrent
// write makes the transaction fail and fn runs again on the fresh value.
// An empty result deletes the key.
func (r *SelectionRepo) Update(ctx context.Context, userID, showtimeID string, fn func(ids []string) ([]string, error)) error {
	key := r.key(userID, showtimeID)
	txf := func(tx *redis.Tx) error {
		ids := []string{}
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if ids, err = decodeIDs(raw); err != nil {
				return err
			}
		}

		next, err := fn(ids)
		if err != nil {
			return err
		}
		var payload []byte
		if len(next) > 0 {
			if payload, err = json.Marshal(next); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if payload == nil {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrSelectionContended
}
