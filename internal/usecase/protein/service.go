package protein

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/grouping"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	equsecase "github.com/kailas-cloud/bioquery/internal/usecase/equivalence"
)

// Service answers protein questions: lookups, orthology groups and the
// taxonomic equivalence searches.
type Service struct {
	repo    Repository
	taxa    Taxonomy
	engines map[domprotein.Namespace]*equsecase.Engine[domprotein.Protein]
	logger  *zap.Logger
}

// New creates a protein service.
func New(repo Repository, taxa Taxonomy, observer equsecase.Observer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	engines := make(map[domprotein.Namespace]*equsecase.Engine[domprotein.Protein], 2)
	for _, ns := range []domprotein.Namespace{domprotein.NamespaceKEGG, domprotein.NamespaceOrthoDB} {
		variant := equsecase.Variant[domprotein.Protein]{
			Name:               "protein_" + string(ns),
			Grouped:            true,
			RequireObservation: true,
			Ancestors:          func(p domprotein.Protein) []int { return p.AncestorIDs },
		}
		engines[ns] = equsecase.New[domprotein.Protein](levelSource{repo: repo, ns: ns}, variant, observer, logger)
	}
	return &Service{repo: repo, taxa: taxa, engines: engines, logger: logger}
}

// Meta returns the proteins with the given UniProt ids.
func (s *Service) Meta(ctx context.Context, ids []string) ([]domprotein.Protein, error) {
	if len(ids) == 0 {
		return nil, domain.InvalidArgument("at least one uniprot id is required")
	}
	out, err := s.repo.List(ctx, domprotein.Query{UniprotIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("list proteins: %w", err)
	}
	if len(out) == 0 {
		return nil, domain.NewNotFound("protein", strings.Join(ids, ","))
	}
	return out, nil
}

// ByID returns one protein.
func (s *Service) ByID(ctx context.Context, id string) (domprotein.Protein, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprotein.Protein{}, fmt.Errorf("get protein: %w", err)
	}
	return p, nil
}

// SearchByNameInTaxon returns observed proteins of one taxon whose names
// contain name as a phrase.
func (s *Service) SearchByNameInTaxon(ctx context.Context, name string, taxonID int) ([]domprotein.Protein, error) {
	text, err := phrase(name)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domprotein.Query{Text: text, TaxonIDs: []int{taxonID}, Observed: true})
}

// SearchByNameInSpecies is SearchByNameInTaxon over every taxon whose name
// contains speciesName.
func (s *Service) SearchByNameInSpecies(ctx context.Context, proteinName, speciesName string) ([]domprotein.Protein, error) {
	text, err := phrase(proteinName)
	if err != nil {
		return nil, err
	}
	taxa, err := s.taxa.IDsByName(ctx, speciesName)
	if err != nil {
		return nil, fmt.Errorf("resolve species: %w", err)
	}
	if len(taxa) == 0 {
		return []domprotein.Protein{}, nil
	}
	return s.list(ctx, domprotein.Query{Text: text, TaxonIDs: taxa, Observed: true})
}

// IDsByName returns the ids and names of proteins matching name.
func (s *Service) IDsByName(ctx context.Context, name string) ([]domprotein.NameHit, error) {
	text, err := phrase(name)
	if err != nil {
		return nil, err
	}
	hits := []domprotein.NameHit{}
	err = s.repo.Each(ctx, domprotein.Query{Text: text}, func(p domprotein.Protein) error {
		hits = append(hits, domprotein.NameHit{UniprotID: p.UniprotID, ProteinName: p.ProteinName})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search proteins: %w", err)
	}
	return hits, nil
}

// GroupsByText folds proteins matching text into KEGG orthology groups.
func (s *Service) GroupsByText(ctx context.Context, text string, shape grouping.Shape) ([]grouping.Group, error) {
	q, err := phrase(text)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, domprotein.Query{Text: q}, domprotein.NamespaceKEGG)
	if err != nil {
		return nil, err
	}
	return grouping.ByKey(rows, shape), nil
}

// GroupsByTaxon folds the proteins of one taxon into KEGG orthology groups.
func (s *Service) GroupsByTaxon(ctx context.Context, taxonID int, shape grouping.Shape) ([]grouping.Group, error) {
	rows, err := s.rows(ctx, domprotein.Query{TaxonIDs: []int{taxonID}}, domprotein.NamespaceKEGG)
	if err != nil {
		return nil, err
	}
	return grouping.ByKey(rows, shape), nil
}

// Group returns the members of one orthology group.
func (s *Service) Group(ctx context.Context, ns domprotein.Namespace, key string, shape grouping.Shape) (grouping.Group, error) {
	q, err := groupQuery(ns, key)
	if err != nil {
		return grouping.Group{}, err
	}
	rows, err := s.rows(ctx, q, ns)
	if err != nil {
		return grouping.Group{}, err
	}
	return grouping.Single(q.GroupKey, rows, shape), nil
}

func (s *Service) rows(ctx context.Context, q domprotein.Query, ns domprotein.Namespace) ([]grouping.Row, error) {
	rows := []grouping.Row{}
	err := s.repo.Each(ctx, q, func(p domprotein.Protein) error {
		rows = append(rows, grouping.Row{
			Key:      p.GroupKey(ns),
			Names:    p.GroupNames(ns),
			MemberID: p.UniprotID,
			Observed: p.HasAbundances(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan proteins: %w", err)
	}
	return rows, nil
}

// Kinetics returns the kinetic summaries of the given proteins.
func (s *Service) Kinetics(ctx context.Context, ids []string) ([]domprotein.Kinetics, error) {
	out := []domprotein.Kinetics{}
	if len(ids) == 0 {
		return out, nil
	}
	err := s.repo.Each(ctx, domprotein.Query{UniprotIDs: ids}, func(p domprotein.Protein) error {
		out = append(out, domprotein.Kinetics{
			UniprotID:        p.UniprotID,
			TaxonID:          p.TaxonID,
			SimilarFunctions: p.Kinetics,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan kinetics: %w", err)
	}
	return out, nil
}

// KineticsByName returns the kinetic summaries of proteins matching name.
func (s *Service) KineticsByName(ctx context.Context, name string) ([]domprotein.Kinetics, error) {
	hits, err := s.IDsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.UniprotID
	}
	return s.Kinetics(ctx, ids)
}

// Abundances returns the observed proteins among ids.
func (s *Service) Abundances(ctx context.Context, ids []string) ([]domprotein.Protein, error) {
	if len(ids) == 0 {
		return nil, domain.InvalidArgument("at least one uniprot id is required")
	}
	out, err := s.list(ctx, domprotein.Query{UniprotIDs: ids, Observed: true})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.NewNotFound("protein abundance", strings.Join(ids, ","))
	}
	return out, nil
}

// AbundancesByTaxon returns every protein of one taxon.
func (s *Service) AbundancesByTaxon(ctx context.Context, taxonID int) ([]domprotein.Protein, error) {
	return s.list(ctx, domprotein.Query{TaxonIDs: []int{taxonID}})
}

// AbundancesByGroup returns the observed members of one orthology group.
func (s *Service) AbundancesByGroup(ctx context.Context, ns domprotein.Namespace, key string) ([]domprotein.Protein, error) {
	q, err := groupQuery(ns, key)
	if err != nil {
		return nil, err
	}
	q.Observed = true
	return s.list(ctx, q)
}

// AbundancesLikeProtein returns the observed proteins sharing the KEGG
// orthology group of id.
func (s *Service) AbundancesLikeProtein(ctx context.Context, id string) ([]domprotein.Protein, error) {
	p, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.KONumber == "" {
		return nil, fmt.Errorf("protein %s: %w", p.UniprotID, domain.ErrNoGroupKey)
	}
	return s.AbundancesByGroup(ctx, domprotein.NamespaceKEGG, p.KONumber)
}

// UniprotIDsByGroup returns the member ids of one orthology group.
func (s *Service) UniprotIDsByGroup(ctx context.Context, ns domprotein.Namespace, key string) ([]string, error) {
	q, err := groupQuery(ns, key)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	err = s.repo.Each(ctx, q, func(p domprotein.Protein) error {
		ids = append(ids, p.UniprotID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan group: %w", err)
	}
	if len(ids) == 0 {
		return nil, domain.NewNotFound(string(ns)+" group", q.GroupKey)
	}
	return ids, nil
}

// GroupOf returns the KEGG orthology id and descriptions of a protein.
// The key is empty when the protein is not assigned to a group.
func (s *Service) GroupOf(ctx context.Context, id string) (string, []string, error) {
	p, err := s.ByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	names := p.KONames
	if names == nil {
		names = []string{}
	}
	return p.KONumber, names, nil
}

// UniqueProteins returns the number of distinct UniProt ids.
func (s *Service) UniqueProteins(ctx context.Context) (int, error) {
	n, err := s.repo.UniqueProteins(ctx)
	if err != nil {
		return 0, fmt.Errorf("unique proteins: %w", err)
	}
	return n, nil
}

// UniqueOrganisms returns the number of distinct taxa carrying proteins.
func (s *Service) UniqueOrganisms(ctx context.Context) (int, error) {
	n, err := s.repo.UniqueOrganisms(ctx)
	if err != nil {
		return 0, fmt.Errorf("unique organisms: %w", err)
	}
	return n, nil
}

func (s *Service) list(ctx context.Context, q domprotein.Query) ([]domprotein.Protein, error) {
	out, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list proteins: %w", err)
	}
	return out, nil
}

func phrase(text string) (string, error) {
	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" {
		return "", domain.InvalidArgument("search text is required")
	}
	return `"` + text + `"`, nil
}

func groupQuery(ns domprotein.Namespace, key string) (domprotein.Query, error) {
	ns, err := namespace(ns)
	if err != nil {
		return domprotein.Query{}, err
	}
	q, err := domprotein.Query{Namespace: ns, GroupKey: key}.Normalized()
	if err != nil {
		return domprotein.Query{}, domain.InvalidArgument("%v", err)
	}
	return q, nil
}

func namespace(ns domprotein.Namespace) (domprotein.Namespace, error) {
	parsed, err := domprotein.ParseNamespace(string(ns))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnknownNamespace, err)
	}
	return parsed, nil
}
