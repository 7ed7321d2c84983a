package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bioquery/internal/db"
)

// rootPath selects the whole document in legacy path syntax, returned unwrapped.
const rootPath = "."

// JSONGet retrieves a JSON document by key and optional paths.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	args := make([]string, len(paths))
	copy(args, paths)

	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Key: key, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// JSONGetMulti fetches whole documents for multiple keys in a single DoMulti round-trip.
// Missing keys yield nil entries.
func (s *Store) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Arbitrary("JSON.GET").Keys(key).Args(rootPath).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([][]byte, len(results))

	for i, res := range results {
		raw, err := res.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &db.Error{Op: db.OpJSONGet, Key: keys[i], Err: err}
		}
		if raw != "" {
			out[i] = []byte(raw)
		}
	}
	return out, nil
}
