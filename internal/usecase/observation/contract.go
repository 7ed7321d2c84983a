package observation

import (
	"context"

	domobs "github.com/kailas-cloud/bioquery/internal/domain/observation"
)

// Repository defines the storage contract for observations.
type Repository interface {
	Find(ctx context.Context, q domobs.Query) ([]domobs.Observation, error)
}
