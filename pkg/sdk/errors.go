package bioquery

import "github.com/kailas-cloud/bioquery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidArgument  = domain.ErrInvalidArgument
	ErrNoGroupKey       = domain.ErrNoGroupKey
	ErrUnknownNamespace = domain.ErrUnknownNamespace
	ErrCorruptDocument  = domain.ErrCorruptDocument
)

// NotFoundError names the kind and key of a failed lookup. Use errors.As.
type NotFoundError = domain.NotFoundError
