package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/handler"
	"github.com/pkordes/tripboard/internal/middleware"
)

// mockEventServicer is a test double for handler.EventServicer.
// Set only the method fields your test needs.
type mockEventServicer struct {
	create  func(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TripEvent, error)
	list    func(ctx context.Context) ([]domain.TripEvent, error)
	update  func(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEventServicer) Create(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error) {
	return m.create(ctx, e)
}
func (m *mockEventServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.TripEvent, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventServicer) List(ctx context.Context) ([]domain.TripEvent, error) {
	return m.list(ctx)
}
func (m *mockEventServicer) Update(ctx context.Context, e domain.TripEvent) (domain.TripEvent, error) {
	return m.update(ctx, e)
}
func (m *mockEventServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockEventServicer must satisfy handler.EventServicer.
var _ handler.EventServicer = (*mockEventServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func newHTTPHandler(svc handler.EventServicer) http.Handler {
	return handler.NewServer(svc, nil).Routes()
}

func eventFixture() domain.TripEvent {
	from := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return domain.TripEvent{
		ID:            uuid.New(),
		Type:          domain.TypeFlight,
		DateFrom:      from,
		DateTo:        from.Add(2 * time.Hour),
		BasePrice:     300,
		DestinationID: uuid.New(),
		OfferIDs:      []uuid.UUID{uuid.New()},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// ---- GET /events -----------------------------------------------------------

func TestListEvents_200(t *testing.T) {
	fixture := eventFixture()
	noOffers := eventFixture()
	noOffers.OfferIDs = nil
	svc := &mockEventServicer{
		list: func(context.Context) ([]domain.TripEvent, error) {
			return []domain.TripEvent{fixture, noOffers}, nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"offers":[]`, "nil offers encode as an empty array")

	var resp []domain.TripEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, fixture.ID, resp[0].ID)
	assert.True(t, fixture.DateFrom.Equal(resp[0].DateFrom))
	assert.Equal(t, fixture.OfferIDs, resp[0].OfferIDs)
}

func TestListEvents_500(t *testing.T) {
	svc := &mockEventServicer{
		list: func(context.Context) ([]domain.TripEvent, error) { return nil, errors.New("db down") },
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, handler.CodeInternal, decodeError(t, rec).Error.Code)
}

// ---- POST /events ----------------------------------------------------------

func TestCreateEvent_201(t *testing.T) {
	fixture := eventFixture()
	var got domain.TripEvent
	svc := &mockEventServicer{
		create: func(_ context.Context, e domain.TripEvent) (domain.TripEvent, error) {
			got = e
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"type":        "flight",
		"date_from":   fixture.DateFrom.Format(time.RFC3339),
		"date_to":     fixture.DateTo.Format(time.RFC3339),
		"base_price":  300,
		"destination": fixture.DestinationID,
		"offers":      fixture.OfferIDs,
		"is_favorite": true,
	})
	req := httptest.NewRequest(http.MethodPost, "/events", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.TypeFlight, got.Type)
	assert.Equal(t, fixture.DestinationID, got.DestinationID)
	assert.True(t, got.IsFavorite)

	var resp domain.TripEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
}

func TestCreateEvent_422_ValidationError(t *testing.T) {
	svc := &mockEventServicer{
		create: func(context.Context, domain.TripEvent) (domain.TripEvent, error) {
			return domain.TripEvent{}, fmt.Errorf("service.EventService.Create: %w: base_price must not be negative", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/events", jsonBody(t, map[string]any{"base_price": -1}))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, handler.CodeValidation, resp.Error.Code)
	assert.Equal(t, "base_price must not be negative", resp.Error.Message)
}

func TestCreateEvent_422_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"type":`))
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockEventServicer{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, handler.CodeValidation, decodeError(t, rec).Error.Code)
}

func TestCreateEvent_413_BodyTooLarge(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(16)(newHTTPHandler(&mockEventServicer{}))

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"type":"flight","base_price":100}`))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, handler.CodeBodyTooLarge, decodeError(t, rec).Error.Code)
}

// ---- GET /events/{id} ------------------------------------------------------

func TestGetEvent_200(t *testing.T) {
	fixture := eventFixture()
	svc := &mockEventServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.TripEvent, error) {
			require.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/"+fixture.ID.String(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetEvent_422_InvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockEventServicer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/not-a-uuid", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- PUT /events/{id} ------------------------------------------------------

func TestUpdateEvent_200_PathIDWins(t *testing.T) {
	fixture := eventFixture()
	svc := &mockEventServicer{
		update: func(_ context.Context, e domain.TripEvent) (domain.TripEvent, error) {
			return e, nil
		},
	}
	body := fixture
	body.ID = uuid.Nil

	req := httptest.NewRequest(http.MethodPut, "/events/"+fixture.ID.String(), jsonBody(t, body))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.TripEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
}

func TestUpdateEvent_422_IDMismatch(t *testing.T) {
	fixture := eventFixture()

	req := httptest.NewRequest(http.MethodPut, "/events/"+uuid.NewString(), jsonBody(t, fixture))
	rec := httptest.NewRecorder()
	newHTTPHandler(&mockEventServicer{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateEvent_404(t *testing.T) {
	fixture := eventFixture()
	svc := &mockEventServicer{
		update: func(context.Context, domain.TripEvent) (domain.TripEvent, error) {
			return domain.TripEvent{}, fmt.Errorf("repo.EventRepo.Update: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/events/"+fixture.ID.String(), jsonBody(t, fixture))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, handler.CodeNotFound, resp.Error.Code)
	assert.Equal(t, "event not found", resp.Error.Message)
}

// ---- DELETE /events/{id} ---------------------------------------------------

func TestDeleteEvent_204(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	svc := &mockEventServicer{
		delete: func(_ context.Context, got uuid.UUID) error {
			deleted = got
			return nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/events/"+id.String(), nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, deleted)
}

func TestDeleteEvent_404(t *testing.T) {
	svc := &mockEventServicer{
		delete: func(context.Context, uuid.UUID) error { return domain.ErrNotFound },
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/events/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
