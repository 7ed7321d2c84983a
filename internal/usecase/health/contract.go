package health

import "context"

// DBPinger reaches the store.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker lists the search indexes that do not exist.
type IndexChecker interface {
	Missing(ctx context.Context) ([]string, error)
}
