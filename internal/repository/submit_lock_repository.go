package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
)

// releaseScript deletes the lock only while it still holds our token, so a
// holder whose lock expired cannot release a newer holder's lock.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// SubmitLockRepo is a Redis backed booking.InFlightGuard shared by every
// instance of the service.  A lock is a SETNX key holding a random token
// and expiring after ttl, bounding how long a crashed holder can block.
type SubmitLockRepo struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    logrus.FieldLogger
}

// NewSubmitLockRepo returns a SubmitLockRepo.  A non-positive ttl defaults
// to 30 seconds.
func NewSubmitLockRepo(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *SubmitLockRepo {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SubmitLockRepo{rdb: rdb, ttl: ttl, prefix: "lock:submit", log: log}
}

// Acquire claims key or fails with booking.ErrSubmissionInProgress.
func (r *SubmitLockRepo) Acquire(ctx context.Context, key string) (func(), error) {
	k := r.prefix + ":" + key
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, k, token, r.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, booking.ErrSubmissionInProgress
	}
	return func() {
		// release must run even when the request context is already done
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(relCtx, r.rdb, []string{k}, token).Err(); err != nil {
			r.log.WithError(err).WithField("key", k).Warn("submit lock release failed")
		}
	}, nil
}

var _ booking.InFlightGuard = (*SubmitLockRepo)(nil)
