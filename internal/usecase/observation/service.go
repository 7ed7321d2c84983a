package observation

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/bioquery/internal/domain"
	domobs "github.com/kailas-cloud/bioquery/internal/domain/observation"
)

// DefaultLimit caps a half-life window when the caller passes no limit.
const DefaultLimit = 10

// Service queries measured observations.
type Service struct {
	repo Repository
}

// New creates an observation service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ProteinHalfLives returns protein half-life observations of the identified
// entity, skipping the first skip results.
func (s *Service) ProteinHalfLives(ctx context.Context, id domobs.Identifier, limit, skip int) ([]domobs.Observation, error) {
	id.Namespace = strings.TrimSpace(id.Namespace)
	id.Value = strings.TrimSpace(id.Value)
	if id.Namespace == "" || id.Value == "" {
		return nil, domain.InvalidArgument("identifier namespace and value are required")
	}
	if limit < 0 || skip < 0 {
		return nil, domain.InvalidArgument("limit and skip must not be negative")
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	out, err := s.repo.Find(ctx, domobs.Query{
		Identifier: id,
		EntityType: domobs.EntityProtein,
		ValueType:  domobs.ValueHalfLife,
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("protein half-lives: %w", err)
	}
	return out, nil
}
