package bioquery

import (
	"context"
	"fmt"
	"time"
)

type rnaUseCase interface {
	ByOrderedLocusName(ctx context.Context, name string, from, size int) (RNAPage, error)
	ByProteinName(ctx context.Context, name string, from, size int) (RNAPage, error)
	ByGroup(ctx context.Context, ns Namespace, key string, from, size int) (RNAPage, error)
}

type observationUseCase interface {
	ProteinHalfLives(ctx context.Context, id Identifier, limit, skip int) ([]Observation, error)
}

// RNAService pages RNA half-life records.
type RNAService struct {
	svc rnaUseCase
	obs *observer
}

// ByLocus pages the records of an ordered locus name.
func (s *RNAService) ByLocus(ctx context.Context, name string, from, size int) (_ RNAPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("rna.by_locus", start, err) }()

	p, err := s.svc.ByOrderedLocusName(ctx, name, from, size)
	if err != nil {
		return RNAPage{}, fmt.Errorf("rna by locus: %w", err)
	}
	return p, nil
}

// ByProtein pages the records of a protein name.
func (s *RNAService) ByProtein(ctx context.Context, name string, from, size int) (_ RNAPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("rna.by_protein", start, err) }()

	p, err := s.svc.ByProteinName(ctx, name, from, size)
	if err != nil {
		return RNAPage{}, fmt.Errorf("rna by protein: %w", err)
	}
	return p, nil
}

// ByGroup pages the records of an orthology group.
func (s *RNAService) ByGroup(ctx context.Context, ns Namespace, key string, from, size int) (_ RNAPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("rna.by_group", start, err) }()

	p, err := s.svc.ByGroup(ctx, ns, key, from, size)
	if err != nil {
		return RNAPage{}, fmt.Errorf("rna by group: %w", err)
	}
	return p, nil
}

// ObservationService reads protein half-life observations.
type ObservationService struct {
	svc observationUseCase
	obs *observer
}

// ProteinHalfLives returns up to limit observations after skip.
func (s *ObservationService) ProteinHalfLives(
	ctx context.Context, id Identifier, limit, skip int,
) (_ []Observation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("observation.protein_half_lives", start, err) }()

	out, err := s.svc.ProteinHalfLives(ctx, id, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("protein half-lives: %w", err)
	}
	return out, nil
}
