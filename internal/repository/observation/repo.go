package observation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	domobs "github.com/kailas-cloud/bioquery/internal/domain/observation"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

const (
	fieldNamespace  = "id_namespace"
	fieldValue      = "id_value"
	fieldEntityType = "entity_type"
	fieldValueType  = "value_type"
)

// Index returns the search schema of the observation collection.
func Index() *db.IndexDefinition {
	return db.NewIndex(domain.CollectionObservation).
		Tag("$.identifier.namespace", fieldNamespace).
		Tag("$.identifier.value", fieldValue).
		Tag("$.entity.type", fieldEntityType).
		Tag("$.values[*].type", fieldValueType).
		MustBuild()
}

type store interface {
	db.Finder
}

// Repo implements usecase/observation.Repository.
type Repo struct {
	store store
}

// New creates an observation repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Find returns one window of observations matching q.
func (r *Repo) Find(ctx context.Context, q domobs.Query) ([]domobs.Observation, error) {
	var b filter.Builder
	b.Must(filter.NewMatch(fieldNamespace, q.Identifier.Namespace)).
		Must(filter.NewMatch(fieldValue, q.Identifier.Value))
	if q.EntityType != "" {
		b.Must(filter.NewMatch(fieldEntityType, q.EntityType))
	}
	if q.ValueType != "" {
		b.Must(filter.NewMatch(fieldValueType, q.ValueType))
	}
	expr, err := b.Build()
	if err != nil {
		return nil, domain.InvalidArgument("observation query: %v", err)
	}

	res, err := r.store.Find(ctx, &db.FindQuery{
		IndexName: domain.CollectionObservation.IndexName(),
		Filters:   expr,
		Offset:    q.Skip,
		Limit:     q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find observations of %s:%s: %w", q.Identifier.Namespace, q.Identifier.Value, err)
	}

	out := make([]domobs.Observation, 0, len(res.Entries))
	for _, e := range res.Entries {
		raw, ok := e.Document()
		if !ok {
			return nil, fmt.Errorf("%w: %s returned without a document", domain.ErrCorruptDocument, e.Key)
		}
		var o domobs.Observation
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrCorruptDocument, e.Key, err)
		}
		out = append(out, o)
	}
	return out, nil
}
