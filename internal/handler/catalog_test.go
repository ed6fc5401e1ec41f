package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/handler"
)

// mockCatalogServicer is a test double for handler.CatalogServicer.
type mockCatalogServicer struct {
	destinations func(ctx context.Context) ([]domain.Destination, error)
	offers       func(ctx context.Context) ([]domain.OfferGroup, error)
}

func (m *mockCatalogServicer) Destinations(ctx context.Context) ([]domain.Destination, error) {
	return m.destinations(ctx)
}
func (m *mockCatalogServicer) Offers(ctx context.Context) ([]domain.OfferGroup, error) {
	return m.offers(ctx)
}

var _ handler.CatalogServicer = (*mockCatalogServicer)(nil)

func TestListDestinations_200(t *testing.T) {
	geneva := domain.Destination{
		ID:       uuid.New(),
		Name:     "Geneva",
		Pictures: []domain.Picture{{Src: "https://example.com/g.jpg", Description: "lake"}},
	}
	svc := &mockCatalogServicer{
		destinations: func(context.Context) ([]domain.Destination, error) {
			return []domain.Destination{geneva}, nil
		},
	}

	rec := httptest.NewRecorder()
	handler.NewServer(nil, svc).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/destinations", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []domain.Destination
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []domain.Destination{geneva}, resp)
}

func TestListOffers_200(t *testing.T) {
	groups := []domain.OfferGroup{{
		Type:   domain.TypeTaxi,
		Offers: []domain.Offer{{ID: uuid.New(), Title: "Order Uber", Price: 20}},
	}}
	svc := &mockCatalogServicer{
		offers: func(context.Context) ([]domain.OfferGroup, error) { return groups, nil },
	}

	rec := httptest.NewRecorder()
	handler.NewServer(nil, svc).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []domain.OfferGroup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, groups, resp)
}

func TestListOffers_500(t *testing.T) {
	svc := &mockCatalogServicer{
		offers: func(context.Context) ([]domain.OfferGroup, error) { return nil, errors.New("boom") },
	}

	rec := httptest.NewRecorder()
	handler.NewServer(nil, svc).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
