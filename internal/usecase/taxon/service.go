package taxon

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
	equsecase "github.com/kailas-cloud/bioquery/internal/usecase/equivalence"
)

// Service answers taxonomy questions over the stored tree.
type Service struct {
	repo   Repository
	nodes  NodeLookup
	engine *equsecase.Engine[domtaxon.Node]
	logger *zap.Logger
}

// New creates a taxonomy service. Single-node lookups go through nodes when
// it is non-nil, otherwise straight to repo.
func New(repo Repository, nodes NodeLookup, observer equsecase.Observer, logger *zap.Logger) *Service {
	if nodes == nil {
		nodes = repo
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	variant := equsecase.Variant[domtaxon.Node]{
		Name:      "taxon",
		Ancestors: domtaxon.Node.AncestorIDs,
	}
	return &Service{
		repo:   repo,
		nodes:  nodes,
		engine: equsecase.New[domtaxon.Node](repo, variant, observer, logger),
		logger: logger,
	}
}

// Node returns a single node by id.
func (s *Service) Node(ctx context.Context, id int) (domtaxon.Node, error) {
	n, err := s.nodes.Get(ctx, id)
	if err != nil {
		return domtaxon.Node{}, fmt.Errorf("get taxon: %w", err)
	}
	return n, nil
}

// NodeByName returns the node whose name matches exactly, ignoring case.
func (s *Service) NodeByName(ctx context.Context, name string) (domtaxon.Node, error) {
	n, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return domtaxon.Node{}, fmt.Errorf("get taxon by name: %w", err)
	}
	return n, nil
}

// IDsByName returns the ids of every node whose name contains name as a phrase.
func (s *Service) IDsByName(ctx context.Context, name string) ([]int, error) {
	name = strings.Trim(strings.TrimSpace(name), `"`)
	if name == "" {
		return nil, domain.InvalidArgument("taxon name is required")
	}
	ids, err := s.repo.SearchIDs(ctx, `"`+name+`"`)
	if err != nil {
		return nil, fmt.Errorf("search taxa by name: %w", err)
	}
	return ids, nil
}

// NamesByIDs returns the names of ids in input order.
func (s *Service) NamesByIDs(ctx context.Context, ids []int) ([]string, error) {
	nodes, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get taxa: %w", err)
	}
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	return names, nil
}

// AncestorsByID returns the ancestor chains of ids, root first.
func (s *Service) AncestorsByID(ctx context.Context, ids []int) ([][]int, [][]string, error) {
	nodes, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("get taxa: %w", err)
	}
	chainIDs, chainNames := chains(nodes)
	return chainIDs, chainNames, nil
}

// AncestorsByName returns the ancestor chains of names, root first.
// Names match exactly, ignoring case.
func (s *Service) AncestorsByName(ctx context.Context, names []string) ([][]int, [][]string, error) {
	nodes := make([]domtaxon.Node, 0, len(names))
	for _, name := range names {
		n, err := s.NodeByName(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	chainIDs, chainNames := chains(nodes)
	return chainIDs, chainNames, nil
}

func chains(nodes []domtaxon.Node) ([][]int, [][]string) {
	ids := make([][]int, len(nodes))
	names := make([][]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.AncestorIDs()
		names[i] = n.AncestorNames()
	}
	return ids, names
}

// Ranks returns the rank of each id, "+" for unlisted ranks.
func (s *Service) Ranks(ctx context.Context, ids []int) ([]string, error) {
	nodes, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get taxa: %w", err)
	}
	ranks := make([]string, len(nodes))
	for i, n := range nodes {
		ranks[i] = string(n.Rank())
	}
	return ranks, nil
}

// CommonAncestorByName relates two organisms looked up by name.
func (s *Service) CommonAncestorByName(ctx context.Context, a, b string) (Kinship, error) {
	first, err := s.NodeByName(ctx, a)
	if err != nil {
		return Kinship{}, err
	}
	second, err := s.NodeByName(ctx, b)
	if err != nil {
		return Kinship{}, err
	}
	return kinshipOf(first, second), nil
}

// CommonAncestorByID relates two organisms looked up by id.
func (s *Service) CommonAncestorByID(ctx context.Context, a, b int) (Kinship, error) {
	first, err := s.Node(ctx, a)
	if err != nil {
		return Kinship{}, err
	}
	second, err := s.Node(ctx, b)
	if err != nil {
		return Kinship{}, err
	}
	return kinshipOf(first, second), nil
}

// Equivalents runs the widening search around id and returns the buckets.
func (s *Service) Equivalents(ctx context.Context, id int, opts equivalence.Options) (equivalence.Result[domtaxon.Node], error) {
	if err := opts.Validate(); err != nil {
		return equivalence.Result[domtaxon.Node]{}, err
	}
	ref, err := s.Node(ctx, id)
	if err != nil {
		return equivalence.Result[domtaxon.Node]{}, err
	}
	res, err := s.engine.Run(ctx, equsecase.Reference[domtaxon.Node]{
		Item:      ref,
		TaxonID:   ref.ID(),
		Ancestors: ref.AncestorIDs(),
	}, opts)
	if err != nil {
		return equivalence.Result[domtaxon.Node]{}, fmt.Errorf("taxon equivalents: %w", err)
	}
	return res, nil
}

// EquivalenceSet returns the ids and names of every node found by
// Equivalents, nearest distance first.
func (s *Service) EquivalenceSet(ctx context.Context, id, maxDistance, maxDepth int) ([]int, []string, error) {
	res, err := s.Equivalents(ctx, id, equivalence.Options{MaxDistance: maxDistance, MaxDepth: maxDepth})
	if err != nil {
		return nil, nil, err
	}
	items := res.Items()
	ids := make([]int, len(items))
	names := make([]string, len(items))
	for i, n := range items {
		ids[i] = n.ID()
		names[i] = n.Name()
	}
	return ids, names, nil
}

// Species returns the names of all species-rank nodes.
func (s *Service) Species(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.repo.EachSpeciesName(ctx, func(name string) error {
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	return names, nil
}

// Count returns the number of stored nodes.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count taxa: %w", err)
	}
	return n, nil
}
