package bioquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/bioquery/internal/db/redis"
	observationrepo "github.com/kailas-cloud/bioquery/internal/repository/observation"
	proteinrepo "github.com/kailas-cloud/bioquery/internal/repository/protein"
	rnarepo "github.com/kailas-cloud/bioquery/internal/repository/rna"
	taxonrepo "github.com/kailas-cloud/bioquery/internal/repository/taxon"
	"github.com/kailas-cloud/bioquery/internal/repository/taxoncache"
	healthuc "github.com/kailas-cloud/bioquery/internal/usecase/health"
	observationuc "github.com/kailas-cloud/bioquery/internal/usecase/observation"
	proteinuc "github.com/kailas-cloud/bioquery/internal/usecase/protein"
	rnauc "github.com/kailas-cloud/bioquery/internal/usecase/rna"
	schemauc "github.com/kailas-cloud/bioquery/internal/usecase/schema"
	taxonuc "github.com/kailas-cloud/bioquery/internal/usecase/taxon"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultConcurrency      = 4
)

// store is what the client needs from the connection beyond the repositories.
type store interface {
	Ping(ctx context.Context) error
	Close()
}

type schemaUseCase interface {
	Ensure(ctx context.Context) ([]string, error)
}

// Client is the bioquery SDK entry point.
type Client struct {
	store       store
	taxa        taxonUseCase
	proteins    proteinUseCase
	rna         rnaUseCase
	obsSvc      observationUseCase
	schema      schemaUseCase
	healthSvc   healthUseCase
	concurrency int
	obs         *observer
}

// New creates a Client and waits until Redis answers.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := newClientConfig(opts)

	if len(cfg.addrs) == 0 {
		return nil, errors.New("bioquery: database address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("bioquery: create redis store: %w", err)
	}

	if err := s.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("bioquery: database not ready: %w", err)
	}

	return wireClient(s, cfg, obs), nil
}

func wireClient(s *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	nop := zap.NewNop()

	taxa := taxonrepo.New(s, cfg.batchSize)
	var nodes taxonuc.NodeLookup = taxa
	if cfg.lineageCacheTTL > 0 {
		nodes = taxoncache.New(taxa, s, cfg.lineageCacheTTL, nil, nop)
	}
	taxonSvc := taxonuc.New(taxa, nodes, nil, nop)

	schema := schemauc.New(s, nop,
		taxonrepo.Index(), proteinrepo.Index(), rnarepo.Index(), observationrepo.Index())

	return &Client{
		store:       s,
		taxa:        taxonSvc,
		proteins:    proteinuc.New(proteinrepo.New(s, cfg.batchSize), taxonSvc, nil, nop),
		rna:         rnauc.New(rnarepo.New(s, cfg.batchSize)),
		obsSvc:      observationuc.New(observationrepo.New(s)),
		schema:      schema,
		healthSvc:   healthuc.New(s, schema),
		concurrency: cfg.concurrency,
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndexes creates the search indexes that do not exist yet and
// returns their names.
func (c *Client) EnsureIndexes(ctx context.Context) (created []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("indexes.ensure", start, err) }()

	created, err = c.schema.Ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return created, nil
}

// Taxa returns the taxonomy service.
func (c *Client) Taxa() *TaxonService {
	return &TaxonService{svc: c.taxa, obs: c.obs}
}

// Proteins returns the protein service.
func (c *Client) Proteins() *ProteinService {
	return &ProteinService{svc: c.proteins, concurrency: c.concurrency, obs: c.obs}
}

// RNA returns the RNA half-life service.
func (c *Client) RNA() *RNAService {
	return &RNAService{svc: c.rna, obs: c.obs}
}

// Observations returns the observation service.
func (c *Client) Observations() *ObservationService {
	return &ObservationService{svc: c.obsSvc, obs: c.obs}
}
