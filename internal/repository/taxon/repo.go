package taxon

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

const kind = "taxon"

// store is the consumer interface for taxonomic nodes (ISP).
type store interface {
	db.Finder
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo implements usecase/taxon.Repository.
type Repo struct {
	store     store
	batchSize int
}

// New creates a taxon repository. batchSize bounds each search round trip.
func New(s store, batchSize int) *Repo {
	if batchSize <= 0 {
		batchSize = db.DefaultBatchSize
	}
	return &Repo{store: s, batchSize: batchSize}
}

// Get returns the node with the given taxonomy id.
func (r *Repo) Get(ctx context.Context, id int) (domtaxon.Node, error) {
	key := docKey(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domtaxon.Node{}, domain.NewNotFound(kind, strconv.Itoa(id))
		}
		return domtaxon.Node{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decodeNode(raw)
}

// GetMany returns nodes in input order. The first unknown id fails the call.
func (r *Repo) GetMany(ctx context.Context, ids []int) ([]domtaxon.Node, error) {
	if len(ids) == 0 {
		return []domtaxon.Node{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.get %d taxa: %w", len(keys), err)
	}

	nodes := make([]domtaxon.Node, len(ids))
	for i, raw := range raws {
		if raw == nil {
			return nil, domain.NewNotFound(kind, strconv.Itoa(ids[i]))
		}
		if nodes[i], err = decodeNode(raw); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// GetByName returns the node whose name equals name, ignoring case.
func (r *Repo) GetByName(ctx context.Context, name string) (domtaxon.Node, error) {
	var b filter.Builder
	expr, err := b.Must(filter.NewMatch(fieldNameTag, name)).Build()
	if err != nil {
		return domtaxon.Node{}, domain.InvalidArgument("taxon name: %v", err)
	}

	entry, err := db.FindOne(ctx, r.store, db.FindQuery{
		IndexName: domain.CollectionTaxon.IndexName(),
		Filters:   expr,
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domtaxon.Node{}, domain.NewNotFound(kind, name)
		}
		return domtaxon.Node{}, fmt.Errorf("find taxon %q: %w", name, err)
	}
	return decodeEntry(entry)
}

// SearchIDs returns the ids of nodes whose name matches text.
func (r *Repo) SearchIDs(ctx context.Context, text string) ([]int, error) {
	var b filter.Builder
	expr, err := b.Must(filter.NewText(text, fieldName)).Build()
	if err != nil {
		return nil, domain.InvalidArgument("taxon search: %v", err)
	}

	cur := db.NewCursor(r.store, db.FindQuery{
		IndexName:    domain.CollectionTaxon.IndexName(),
		Filters:      expr,
		ReturnFields: []string{fieldID},
	}, r.batchSize)

	ids := []int{}
	for cur.Next(ctx) {
		entry := cur.Entry()
		id, err := strconv.Atoi(entry.Fields[fieldID])
		if err != nil {
			return nil, fmt.Errorf("%w: %s tax_id: %w", domain.ErrCorruptDocument, entry.Key, err)
		}
		ids = append(ids, id)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("search taxa %q: %w", text, err)
	}
	return ids, nil
}

// EachAtLevel streams the candidates of one equivalence level to fn.
// Group keys and observation requirements do not apply to taxa.
func (r *Repo) EachAtLevel(ctx context.Context, q equivalence.LevelQuery, fn func(domtaxon.Node) error) error {
	var b filter.Builder
	expr, err := b.
		Must(filter.NewAllNumbers(fieldAncestor, filter.Ints(q.CommonPrefix)...)).
		MustNot(filter.NewAnyNumber(fieldID, filter.Ints(q.Excluded)...)).
		MustNot(filter.NewAnyNumber(fieldAncestor, filter.Ints(q.Excluded)...)).
		Build()
	if err != nil {
		return domain.InvalidArgument("level query: %v", err)
	}

	cur := db.NewCursor(r.store, db.FindQuery{
		IndexName: domain.CollectionTaxon.IndexName(),
		Filters:   expr,
	}, r.batchSize)

	for cur.Next(ctx) {
		n, err := decodeEntry(cur.Entry())
		if err != nil {
			return err
		}
		if err := fn(n); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("scan taxa below %v: %w", q.CommonPrefix, err)
	}
	return nil
}

// EachSpeciesName streams the names of all species-rank nodes.
func (r *Repo) EachSpeciesName(ctx context.Context, fn func(string) error) error {
	var b filter.Builder
	expr, err := b.Must(filter.NewMatch(fieldRank, string(domtaxon.RankSpecies))).Build()
	if err != nil {
		return err
	}

	cur := db.NewCursor(r.store, db.FindQuery{
		IndexName:    domain.CollectionTaxon.IndexName(),
		Filters:      expr,
		ReturnFields: []string{fieldName},
	}, r.batchSize)

	for cur.Next(ctx) {
		name := cur.Entry().Fields[fieldName]
		if name == "" {
			continue
		}
		if err := fn(name); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("scan species: %w", err)
	}
	return nil
}

// Count returns the number of stored nodes.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.Count(ctx, domain.CollectionTaxon.IndexName(), filter.Expression{})
	if err != nil {
		return 0, fmt.Errorf("count taxa: %w", err)
	}
	return n, nil
}

func decodeEntry(e db.SearchEntry) (domtaxon.Node, error) {
	raw, ok := e.Document()
	if !ok {
		return domtaxon.Node{}, fmt.Errorf("%w: %s returned without a document", domain.ErrCorruptDocument, e.Key)
	}
	return decodeNode(raw)
}

func docKey(id int) string {
	return domain.CollectionTaxon.DocKey(strconv.Itoa(id))
}
