package rna

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/bioquery/internal/domain"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domrna "github.com/kailas-cloud/bioquery/internal/domain/rna"
)

// Service looks up RNA half-life records.
type Service struct {
	repo Repository
}

// New creates an RNA service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ByOrderedLocusName returns records measured for the locus.
func (s *Service) ByOrderedLocusName(ctx context.Context, name string, from, size int) (domrna.Page, error) {
	return s.page(ctx, domrna.FieldOrderedLocusName, name, from, size)
}

// ByProteinName returns records whose protein product carries name.
func (s *Service) ByProteinName(ctx context.Context, name string, from, size int) (domrna.Page, error) {
	return s.page(ctx, domrna.FieldProteinName, name, from, size)
}

// ByGroup returns records whose protein product belongs to the orthology group.
func (s *Service) ByGroup(ctx context.Context, ns domprotein.Namespace, key string, from, size int) (domrna.Page, error) {
	parsed, err := domprotein.ParseNamespace(string(ns))
	if err != nil {
		return domrna.Page{}, fmt.Errorf("%w: %w", domain.ErrUnknownNamespace, err)
	}
	normalized := parsed.Normalize(key)
	if normalized == "" {
		return domrna.Page{}, domain.InvalidArgument("empty %s group key", parsed)
	}
	field := domrna.FieldKONumber
	if parsed == domprotein.NamespaceOrthoDB {
		field = domrna.FieldOrthoDBID
	}
	return s.page(ctx, field, normalized, from, size)
}

func (s *Service) page(ctx context.Context, field domrna.Field, value string, from, size int) (domrna.Page, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domrna.Page{}, domain.InvalidArgument("%s is required", field)
	}
	page, err := s.repo.Page(ctx, domrna.Lookup{Field: field, Value: value, From: from, Size: size})
	if err != nil {
		return domrna.Page{}, fmt.Errorf("rna by %s: %w", field, err)
	}
	return page, nil
}
