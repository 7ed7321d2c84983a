package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bioquery/internal/db"
)

var _ db.Store = (*Store)(nil)

// DefaultDistinctLimit caps the number of groups returned by Distinct.
const DefaultDistinctLimit = 100000

// Readiness polling starts at readyPollMin and doubles up to readyPollMax.
const (
	readyPollMin = 50 * time.Millisecond
	readyPollMax = time.Second
)

// Config holds connection parameters for a Redis 8 deployment.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int

	// DistinctLimit caps FT.AGGREGATE GROUPBY results, DefaultDistinctLimit when zero.
	DistinctLimit int

	// Observer, when set, receives the outcome of every single-command round trip.
	Observer CommandObserver
}

func (c Config) clientOption() rueidis.ClientOption {
	return rueidis.ClientOption{
		InitAddress:  c.Addrs,
		Username:     c.Username,
		Password:     c.Password,
		SelectDB:     c.DB,
		DisableCache: true,
		// FT.SEARCH replies are parsed in RESP2 array form.
		AlwaysRESP2: true,
	}
}

// CommandObserver records store round trips. ok is false only for server or
// transport errors; a missing key is not a failure.
type CommandObserver interface {
	ObserveCommand(command string, d time.Duration, ok bool)
}

// Store serves taxonomy, protein and RNA documents from Redis JSON through
// the query engine.
type Store struct {
	client        rueidis.Client
	distinctLimit int
	observer      CommandObserver
}

// NewStore dials the deployment in cfg.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}
	client, err := rueidis.NewClient(cfg.clientOption())
	if err != nil {
		return nil, fmt.Errorf("redis: connect %s: %w", strings.Join(cfg.Addrs, ","), err)
	}

	s := &Store{client: client, distinctLimit: cfg.DistinctLimit, observer: cfg.Observer}
	if s.distinctLimit <= 0 {
		s.distinctLimit = DefaultDistinctLimit
	}
	return s, nil
}

// NewStoreFromClient wraps an existing client with the default distinct limit
// and no observer. The caller keeps ownership of c until Close.
func NewStoreFromClient(c rueidis.Client) *Store {
	return &Store{client: c, distinctLimit: DefaultDistinctLimit}
}

// Ping round-trips a PING.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the connections.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with a growing interval until the store answers or
// timeout elapses. The last ping error is reported on timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for wait := readyPollMin; ; wait = min(wait*2, readyPollMax) {
		if lastErr = s.Ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("store not ready after %s: %w", timeout, errors.Join(ctx.Err(), lastErr))
		case <-time.After(wait):
		}
	}
}

// do executes cmd, reporting the round trip to the observer.
func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	if s.observer == nil {
		return s.client.Do(ctx, cmd)
	}
	start := time.Now()
	res := s.client.Do(ctx, cmd)
	err := res.Error()
	s.observer.ObserveCommand(commandName(cmd), time.Since(start), err == nil || rueidis.IsRedisNil(err))
	return res
}

func commandName(cmd rueidis.Completed) string {
	if parts := cmd.Commands(); len(parts) > 0 {
		return parts[0]
	}
	return "unknown"
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// serverErrorContains reports whether err is a Redis error reply whose
// message contains fragment, ignoring case.
func serverErrorContains(err error, fragment string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(fragment))
}
