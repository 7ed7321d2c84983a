// Package schema keeps the search indexes the query layer depends on in place.
package schema

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/db"
)

// IndexManager is the index lifecycle subset of the store.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Service creates and inspects the collection indexes.
type Service struct {
	indexes IndexManager
	defs    []*db.IndexDefinition
	logger  *zap.Logger
}

// New creates a schema service over the given definitions.
func New(indexes IndexManager, logger *zap.Logger, defs ...*db.IndexDefinition) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{indexes: indexes, defs: defs, logger: logger}
}

// Ensure creates every missing index and returns the names it created.
// An index created concurrently by another process counts as present.
func (s *Service) Ensure(ctx context.Context) ([]string, error) {
	created := []string{}
	for _, def := range s.defs {
		if err := def.Validate(); err != nil {
			return created, fmt.Errorf("index %s: %w", def.Name, err)
		}
		exists, err := s.indexes.IndexExists(ctx, def.Name)
		if err != nil {
			return created, fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			continue
		}
		if err := s.indexes.CreateIndex(ctx, def); err != nil {
			if errors.Is(err, db.ErrIndexExists) {
				continue
			}
			return created, fmt.Errorf("create index %s: %w", def.Name, err)
		}
		s.logger.Info("Index created", zap.String("index", def.Name), zap.Int("fields", len(def.Fields)))
		created = append(created, def.Name)
	}
	return created, nil
}

// Missing returns the names of indexes that do not exist.
func (s *Service) Missing(ctx context.Context) ([]string, error) {
	var missing []string
	for _, def := range s.defs {
		exists, err := s.indexes.IndexExists(ctx, def.Name)
		if err != nil {
			return nil, fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if !exists {
			missing = append(missing, def.Name)
		}
	}
	return missing, nil
}
