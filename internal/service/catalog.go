package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// CatalogService serves the read-only destination and offer catalogs.
type CatalogService struct {
	destinations repo.DestinationRepo
	offers       repo.OfferRepo
}

// NewCatalogService constructs a CatalogService backed by the provided repos.
func NewCatalogService(destinations repo.DestinationRepo, offers repo.OfferRepo) *CatalogService {
	return &CatalogService{destinations: destinations, offers: offers}
}

// Destinations returns every destination. Never nil.
func (s *CatalogService) Destinations(ctx context.Context) ([]domain.Destination, error) {
	out, err := s.destinations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Destinations: %w", err)
	}
	if out == nil {
		return []domain.Destination{}, nil
	}
	return out, nil
}

// Offers returns one offer group per event type. Never nil.
func (s *CatalogService) Offers(ctx context.Context) ([]domain.OfferGroup, error) {
	out, err := s.offers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Offers: %w", err)
	}
	if out == nil {
		return []domain.OfferGroup{}, nil
	}
	return out, nil
}
