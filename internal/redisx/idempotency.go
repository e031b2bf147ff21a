package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers the response of a finalize request so a client
// retrying with the same key gets the same order back.
type IdempotencyStore struct {
	rdb *redis.Client
}

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

// Lookup returns the stored response, or nil when the key is unseen.
func (s *IdempotencyStore) Lookup(ctx context.Context, sessionID, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, fmt.Sprintf(KeyIdemFinalize, sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *IdempotencyStore) Remember(ctx context.Context, sessionID, key string, response []byte) error {
	return s.rdb.Set(ctx, fmt.Sprintf(KeyIdemFinalize, sessionID, key), response, TTLIdempotency).Err()
}
