package taxoncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

var cacheKeyPrefix = domain.KeyPrefix + "lineage_cache:"

// DefaultTTL bounds how long a cached lineage may lag behind the taxonomy.
const DefaultTTL = time.Hour

// store is the consumer interface for the lineage cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// source loads nodes on a cache miss.
type source interface {
	Get(ctx context.Context, id int) (domtaxon.Node, error)
}

// Cache serves taxonomic nodes from the key-value store, falling back to source.
// Concurrent misses for the same id share one source call.
type Cache struct {
	inner      source
	store      store
	ttl        time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. A non-positive ttl means DefaultTTL.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner source,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the node with the given id.
func (c *Cache) Get(ctx context.Context, id int) (domtaxon.Node, error) {
	key := cacheKeyPrefix + strconv.Itoa(id)

	if n, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return n, nil
	}
	c.incCache("miss")

	// The load outlives a cancelled caller so the callers sharing it still
	// get the node.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		n, err := c.inner.Get(loadCtx, id)
		if err != nil {
			return domtaxon.Node{}, err
		}
		c.putToCache(loadCtx, key, n)
		return n, nil
	})

	select {
	case <-ctx.Done():
		return domtaxon.Node{}, fmt.Errorf("load taxon %d: %w", id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domtaxon.Node{}, fmt.Errorf("load taxon %d: %w", id, res.Err)
		}
		return res.Val.(domtaxon.Node), nil
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) getFromCache(ctx context.Context, key string) (domtaxon.Node, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached lineage", zap.String("key", key), zap.Error(err))
		}
		return domtaxon.Node{}, false
	}
	if len(data) == 0 {
		return domtaxon.Node{}, false
	}

	n, err := decode(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached lineage", zap.String("key", key), zap.Error(err))
		return domtaxon.Node{}, false
	}
	return n, true
}

func (c *Cache) putToCache(ctx context.Context, key string, n domtaxon.Node) {
	data, err := encode(n)
	if err != nil {
		c.logger.Warn("Failed to encode lineage", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache lineage", zap.String("key", key), zap.Error(err))
	}
}

// entry is the cached form of a node.
type entry struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Rank       string   `json:"rank"`
	AncIDs     []int    `json:"anc_ids"`
	AncNames   []string `json:"anc_names"`
	CanonIDs   []int    `json:"canon_ids,omitempty"`
	CanonNames []string `json:"canon_names,omitempty"`
}

func encode(n domtaxon.Node) ([]byte, error) {
	return json.Marshal(entry{
		ID:         n.ID(),
		Name:       n.Name(),
		Rank:       string(n.Rank()),
		AncIDs:     n.AncestorIDs(),
		AncNames:   n.AncestorNames(),
		CanonIDs:   n.CanonicalAncestorIDs(),
		CanonNames: n.CanonicalAncestorNames(),
	})
}

func decode(data []byte) (domtaxon.Node, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return domtaxon.Node{}, err
	}
	n, err := domtaxon.New(e.ID, e.Name, domtaxon.ParseRank(e.Rank), e.AncIDs, e.AncNames)
	if err != nil {
		return domtaxon.Node{}, err
	}
	if len(e.CanonIDs) > 0 || len(e.CanonNames) > 0 {
		n = n.WithCanonical(e.CanonIDs, e.CanonNames)
	}
	return n, nil
}
