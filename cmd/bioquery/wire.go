package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/bioquery/internal/db/redis"
	"github.com/kailas-cloud/bioquery/internal/metrics"
	observationrepo "github.com/kailas-cloud/bioquery/internal/repository/observation"
	proteinrepo "github.com/kailas-cloud/bioquery/internal/repository/protein"
	rnarepo "github.com/kailas-cloud/bioquery/internal/repository/rna"
	taxonrepo "github.com/kailas-cloud/bioquery/internal/repository/taxon"
	"github.com/kailas-cloud/bioquery/internal/repository/taxoncache"
	healthuc "github.com/kailas-cloud/bioquery/internal/usecase/health"
	proteinuc "github.com/kailas-cloud/bioquery/internal/usecase/protein"
	rnauc "github.com/kailas-cloud/bioquery/internal/usecase/rna"
	schemauc "github.com/kailas-cloud/bioquery/internal/usecase/schema"
	taxonuc "github.com/kailas-cloud/bioquery/internal/usecase/taxon"
)

// services is the composition root shared by every subcommand.
type services struct {
	store    *dbRedis.Store
	taxa     *taxonuc.Service
	proteins *proteinuc.Service
	rna      *rnauc.Service
	schema   *schemauc.Service
	health   *healthuc.Service
}

// connect opens the store, waits for it and assembles the services.
func (a *app) connect(ctx context.Context) (*services, error) {
	cfg := a.cfg
	log := a.logger

	metrics.RegisterStoreMetrics()
	metrics.RegisterQueryMetrics()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
		Observer: metrics.StoreObserver{},
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.Database.Readiness()); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	log.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))

	taxa := taxonrepo.New(store, cfg.Query.BatchSize)
	var nodes taxonuc.NodeLookup = taxa
	if cfg.Cache.Enabled {
		nodes = taxoncache.New(taxa, store, cfg.Cache.TTL(), metrics.LineageCacheTotal, log)
		log.Info("Lineage cache enabled", zap.Duration("ttl", cfg.Cache.TTL()))
	}

	observer := metrics.LevelObserver{}
	taxonSvc := taxonuc.New(taxa, nodes, observer, log)
	schema := schemauc.New(store, log,
		taxonrepo.Index(), proteinrepo.Index(), rnarepo.Index(), observationrepo.Index())

	return &services{
		store:    store,
		taxa:     taxonSvc,
		proteins: proteinuc.New(proteinrepo.New(store, cfg.Query.BatchSize), taxonSvc, observer, log),
		rna:      rnauc.New(rnarepo.New(store, cfg.Query.BatchSize)),
		schema:   schema,
		health:   healthuc.New(store, schema),
	}, nil
}

func (s *services) Close() {
	s.store.Close()
}
