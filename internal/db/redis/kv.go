package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bioquery/internal/db"
)

// Get reads a plain string value. A missing key yields db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	switch {
	case err == nil:
		return raw, nil
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	default:
		return nil, &db.Error{Op: db.OpGet, Key: key, Err: err}
	}
}

// SetWithTTL writes value with millisecond expiry. A non-positive ttl keeps
// the entry until it is overwritten.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	set := s.b().Set().Key(key).Value(rueidis.BinaryString(value))

	var cmd rueidis.Completed
	if ttl > 0 {
		cmd = set.Px(ttl).Build()
	} else {
		cmd = set.Build()
	}
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Key: key, Err: err}
	}
	return nil
}
