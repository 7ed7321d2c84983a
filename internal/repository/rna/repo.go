package rna

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	domrna "github.com/kailas-cloud/bioquery/internal/domain/rna"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

// Query names of the indexed RNA fields.
var lookupFields = map[domrna.Field]string{
	domrna.FieldOrderedLocusName: "oln",
	domrna.FieldProteinName:      "protein_names",
	domrna.FieldKONumber:         "ko_number",
	domrna.FieldOrthoDBID:        "orthodb_id",
}

// Index returns the search schema of the RNA half-life collection.
func Index() *db.IndexDefinition {
	return db.NewIndex(domain.CollectionRNA).
		Tag("$.uniprot_id", "uniprot_id").Sortable().
		Tag("$.halflives[*].ordered_locus_name", lookupFields[domrna.FieldOrderedLocusName]).
		Tag("$.protein_names[*]", lookupFields[domrna.FieldProteinName]).
		Tag("$.ko_number", lookupFields[domrna.FieldKONumber]).
		Tag("$.orthodb_id", lookupFields[domrna.FieldOrthoDBID]).
		MustBuild()
}

type store interface {
	db.Finder
}

// Repo implements usecase/rna.Repository.
type Repo struct {
	store     store
	batchSize int
}

// New creates an RNA repository.
func New(s store, batchSize int) *Repo {
	if batchSize <= 0 {
		batchSize = db.DefaultBatchSize
	}
	return &Repo{store: s, batchSize: batchSize}
}

// Page returns the records selected by l and the total number of matches.
func (r *Repo) Page(ctx context.Context, l domrna.Lookup) (domrna.Page, error) {
	field, ok := lookupFields[l.Field]
	if !ok {
		return domrna.Page{}, domain.InvalidArgument("unknown rna lookup field %q", l.Field)
	}
	if l.From < 0 || l.Size < 0 {
		return domrna.Page{}, domain.InvalidArgument("from and size must not be negative")
	}

	var b filter.Builder
	expr, err := b.Must(filter.NewMatch(field, l.Value)).Build()
	if err != nil {
		return domrna.Page{}, domain.InvalidArgument("rna lookup: %v", err)
	}

	cur := db.NewCursor(r.store, db.FindQuery{
		IndexName: domain.CollectionRNA.IndexName(),
		Filters:   expr,
		SortBy:    "uniprot_id",
		Offset:    l.From,
		Limit:     l.Size,
	}, r.batchSize)

	page := domrna.Page{Items: []domrna.Record{}}
	for cur.Next(ctx) {
		entry := cur.Entry()
		raw, ok := entry.Document()
		if !ok {
			return domrna.Page{}, fmt.Errorf("%w: %s returned without a document", domain.ErrCorruptDocument, entry.Key)
		}
		var rec domrna.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return domrna.Page{}, fmt.Errorf("%w: decode %s: %w", domain.ErrCorruptDocument, entry.Key, err)
		}
		page.Items = append(page.Items, rec)
	}
	if err := cur.Err(); err != nil {
		return domrna.Page{}, fmt.Errorf("scan rna by %s: %w", l.Field, err)
	}
	page.Total = max(cur.Total(), 0)
	return page, nil
}
