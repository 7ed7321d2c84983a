package redis

import (
	"context"

	"github.com/kailas-cloud/bioquery/internal/db"
)

// CreateIndex runs FT.CREATE for def. An existing index yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := def.Args()
	if err != nil {
		return err
	}

	err = s.do(ctx, s.b().Arbitrary("FT.CREATE").Args(args...).Build()).Error()
	switch {
	case err == nil:
		return nil
	case serverErrorContains(err, "index already exists"):
		return db.ErrIndexExists
	default:
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
}

// DropIndex removes an index and keeps its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	err := s.do(ctx, s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()).Error()
	switch {
	case err == nil:
		return nil
	case unknownIndex(err):
		return db.ErrIndexNotFound
	default:
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
}

// IndexExists probes an index with FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	err := s.do(ctx, s.b().Arbitrary("FT.INFO").Args(name).Build()).Error()
	switch {
	case err == nil:
		return true, nil
	case unknownIndex(err):
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
}

// unknownIndex matches the wording of Redis 8 and older RediSearch modules.
func unknownIndex(err error) bool {
	return serverErrorContains(err, "unknown index name") || serverErrorContains(err, "no such index")
}
