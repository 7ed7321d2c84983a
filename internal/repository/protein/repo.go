package protein

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

const kind = "protein"

// store is the consumer interface for proteins (ISP).
type store interface {
	db.Finder
}

// Repo implements usecase/protein.Repository.
type Repo struct {
	store     store
	batchSize int
}

// New creates a protein repository. batchSize bounds each search round trip.
func New(s store, batchSize int) *Repo {
	if batchSize <= 0 {
		batchSize = db.DefaultBatchSize
	}
	return &Repo{store: s, batchSize: batchSize}
}

// Get returns the protein with the given UniProt id, ignoring case.
func (r *Repo) Get(ctx context.Context, uniprotID string) (domprotein.Protein, error) {
	var b filter.Builder
	expr, err := b.Must(filter.NewMatch(fieldUniprotID, uniprotID)).Build()
	if err != nil {
		return domprotein.Protein{}, domain.InvalidArgument("uniprot id: %v", err)
	}

	entry, err := db.FindOne(ctx, r.store, db.FindQuery{
		IndexName: domain.CollectionProtein.IndexName(),
		Filters:   expr,
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domprotein.Protein{}, domain.NewNotFound(kind, uniprotID)
		}
		return domprotein.Protein{}, fmt.Errorf("find protein %s: %w", uniprotID, err)
	}
	return decodeEntry(entry)
}

// Each streams the proteins matching q to fn in retrieval order.
// Iteration stops at the first error returned by fn.
func (r *Repo) Each(ctx context.Context, q domprotein.Query, fn func(domprotein.Protein) error) error {
	expr, err := expression(q)
	if err != nil {
		return err
	}

	cur := db.NewCursor(r.store, db.FindQuery{
		IndexName: domain.CollectionProtein.IndexName(),
		Filters:   expr,
		Offset:    q.Offset,
		Limit:     q.Limit,
	}, r.batchSize)

	for cur.Next(ctx) {
		p, err := decodeEntry(cur.Entry())
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("scan proteins: %w", err)
	}
	return nil
}

// List collects the proteins matching q.
func (r *Repo) List(ctx context.Context, q domprotein.Query) ([]domprotein.Protein, error) {
	out := []domprotein.Protein{}
	err := r.Each(ctx, q, func(p domprotein.Protein) error {
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of proteins matching q.
func (r *Repo) Count(ctx context.Context, q domprotein.Query) (int, error) {
	expr, err := expression(q)
	if err != nil {
		return 0, err
	}
	n, err := r.store.Count(ctx, domain.CollectionProtein.IndexName(), expr)
	if err != nil {
		return 0, fmt.Errorf("count proteins: %w", err)
	}
	return n, nil
}

// UniqueProteins returns the number of distinct UniProt ids.
func (r *Repo) UniqueProteins(ctx context.Context) (int, error) {
	return r.distinctCount(ctx, fieldUniprotID)
}

// UniqueOrganisms returns the number of distinct taxa carrying proteins.
func (r *Repo) UniqueOrganisms(ctx context.Context) (int, error) {
	return r.distinctCount(ctx, fieldTaxon)
}

func (r *Repo) distinctCount(ctx context.Context, field string) (int, error) {
	n, err := r.store.CountDistinct(ctx, domain.CollectionProtein.IndexName(), field, filter.Expression{})
	if err != nil {
		return 0, fmt.Errorf("distinct %s: %w", field, err)
	}
	return n, nil
}

// expression translates a protein query into a store filter.
func expression(q domprotein.Query) (filter.Expression, error) {
	q, err := q.Normalized()
	if err != nil {
		return filter.Expression{}, domain.InvalidArgument("%v", err)
	}

	var b filter.Builder
	if len(q.UniprotIDs) > 0 {
		b.Must(filter.NewAnyOf(fieldUniprotID, q.UniprotIDs...))
	}
	if len(q.TaxonIDs) > 0 {
		b.Must(filter.NewAnyNumber(fieldTaxon, filter.Ints(q.TaxonIDs)...))
	}
	if q.Namespace != "" {
		b.Must(filter.NewMatch(groupField(q.Namespace), q.GroupKey))
	}
	if q.Text != "" {
		b.Must(filter.NewText(q.Text, textFields...))
	}
	if len(q.WithinLineage) > 0 {
		b.Must(filter.NewAllNumbers(fieldAncestor, filter.Ints(q.WithinLineage)...))
	}
	if len(q.OutsideLineage) > 0 {
		excluded := filter.Ints(q.OutsideLineage)
		b.MustNot(filter.NewAnyNumber(fieldTaxon, excluded...))
		b.MustNot(filter.NewAnyNumber(fieldAncestor, excluded...))
	}
	if q.Observed {
		b.Must(filter.NewMatch(fieldObserved, "true"))
	}

	expr, err := b.Build()
	if err != nil {
		return filter.Expression{}, domain.InvalidArgument("protein query: %v", err)
	}
	return expr, nil
}

func groupField(ns domprotein.Namespace) string {
	if ns == domprotein.NamespaceOrthoDB {
		return fieldOrthoDB
	}
	return fieldKO
}
