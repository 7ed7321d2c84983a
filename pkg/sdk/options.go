package bioquery

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Client built by New.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	batchSize        int
	concurrency      int
	lineageCacheTTL  time.Duration
	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func newClientConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{
		concurrency:      defaultConcurrency,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRedis connects to a single Redis 8 instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedisCluster connects through several seed addresses.
func WithRedisCluster(password string, addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithACLUser authenticates as username instead of the default user.
func WithACLUser(username string) Option {
	return func(c *clientConfig) { c.username = username }
}

// WithDatabase selects a logical database on a standalone server.
func WithDatabase(n int) Option {
	return func(c *clientConfig) { c.db = n }
}

// WithBatchSize sets the documents fetched per search round trip (default 500).
func WithBatchSize(n int) Option {
	return func(c *clientConfig) { c.batchSize = n }
}

// WithConcurrency bounds how many references EquivalentsMany resolves at once (default 4).
func WithConcurrency(n int) Option {
	return func(c *clientConfig) { c.concurrency = n }
}

// WithLineageCache keeps resolved lineages in Redis for ttl. Off unless set.
func WithLineageCache(ttl time.Duration) Option {
	return func(c *clientConfig) { c.lineageCacheTTL = ttl }
}

// WithReadinessTimeout bounds how long New waits for the server (default 10s).
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.readinessTimeout = d }
}

// WithLogger logs every operation to l: failures at warn, the rest at debug.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// WithPrometheus registers operation counters and latency histograms on reg.
// Clients sharing reg share the collectors.
func WithPrometheus(reg prometheus.Registerer) Option {
	return func(c *clientConfig) { c.metricsReg = reg }
}
