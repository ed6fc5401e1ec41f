package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/repo"
)

// mockEventRepo is a hand-written test double for repo.EventRepo.
// Each method is a function field; set only the ones your test needs.
type mockEventRepo struct {
	create  func(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TripEvent, error)
	list    func(ctx context.Context) ([]domain.TripEvent, error)
	update  func(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEventRepo) Create(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error) {
	return m.create(ctx, e)
}
func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripEvent, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventRepo) List(ctx context.Context) ([]domain.TripEvent, error) {
	return m.list(ctx)
}
func (m *mockEventRepo) Update(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error) {
	return m.update(ctx, e)
}
func (m *mockEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockDestinationRepo is a hand-written test double for repo.DestinationRepo.
type mockDestinationRepo struct {
	list    func(ctx context.Context) ([]domain.Destination, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Destination, error)
}

func (m *mockDestinationRepo) List(ctx context.Context) ([]domain.Destination, error) {
	return m.list(ctx)
}
func (m *mockDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	return m.getByID(ctx, id)
}

// mockOfferRepo is a hand-written test double for repo.OfferRepo.
type mockOfferRepo struct {
	list       func(ctx context.Context) ([]domain.OfferGroup, error)
	listByType func(ctx context.Context, t domain.EventType) ([]domain.Offer, error)
}

func (m *mockOfferRepo) List(ctx context.Context) ([]domain.OfferGroup, error) {
	return m.list(ctx)
}
func (m *mockOfferRepo) ListByType(ctx context.Context, t domain.EventType) ([]domain.Offer, error) {
	return m.listByType(ctx, t)
}

// compile-time checks.
var (
	_ repo.EventRepo       = (*mockEventRepo)(nil)
	_ repo.DestinationRepo = (*mockDestinationRepo)(nil)
	_ repo.OfferRepo       = (*mockOfferRepo)(nil)
)
