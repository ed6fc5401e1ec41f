package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
)

func TestParseEventType(t *testing.T) {
	for _, typ := range domain.EventTypes() {
		got, err := domain.ParseEventType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := domain.ParseEventType("rocket")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventTypes_fixedSet(t *testing.T) {
	assert.Len(t, domain.EventTypes(), 9)
}

func TestTripEvent_Clone_isDeep(t *testing.T) {
	orig := domain.TripEvent{ID: uuid.New(), OfferIDs: []uuid.UUID{uuid.New()}}

	c := orig.Clone()
	c.OfferIDs[0] = uuid.New()

	assert.NotEqual(t, orig.OfferIDs[0], c.OfferIDs[0])
}

func TestTripEvent_Duration(t *testing.T) {
	from := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	e := domain.TripEvent{DateFrom: from, DateTo: from.Add(90 * time.Minute)}

	assert.Equal(t, 90*time.Minute, e.Duration())
}

func TestSelectedOffers_onlyFromTypeGroup(t *testing.T) {
	luggage := domain.Offer{ID: uuid.New(), Title: "Add luggage", Price: 30}
	comfort := domain.Offer{ID: uuid.New(), Title: "Comfort class", Price: 100}
	lunch := domain.Offer{ID: uuid.New(), Title: "Lunch in city", Price: 30}
	groups := []domain.OfferGroup{
		{Type: domain.TypeFlight, Offers: []domain.Offer{luggage, comfort}},
		{Type: domain.TypeRestaurant, Offers: []domain.Offer{lunch}},
	}
	e := domain.TripEvent{Type: domain.TypeFlight, OfferIDs: []uuid.UUID{comfort.ID, lunch.ID}}

	assert.Equal(t, []domain.Offer{comfort}, domain.SelectedOffers(groups, e))
}

func TestChange_Structural(t *testing.T) {
	assert.True(t, domain.Change{Type: domain.UpdateMajor}.Structural())
	assert.False(t, domain.Change{Event: domain.TripEvent{ID: uuid.New()}}.Structural())
}
