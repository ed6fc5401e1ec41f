// Package handler implements the HTTP handlers for the Trip Board API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, event.go, catalog.go) but share the Server struct so they can
// reach its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripboard/internal/domain"
)

// EventServicer defines the business operations the event handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type EventServicer interface {
	Create(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripEvent, error)
	List(ctx context.Context) ([]domain.TripEvent, error)
	Update(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogServicer defines the read-only catalog operations.
type CatalogServicer interface {
	Destinations(ctx context.Context) ([]domain.Destination, error)
	Offers(ctx context.Context) ([]domain.OfferGroup, error)
}

// Server holds the dependencies of every API endpoint.
type Server struct {
	events  EventServicer
	catalog CatalogServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(events EventServicer, catalog CatalogServicer) *Server {
	return &Server{events: events, catalog: catalog}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Routes returns the API router. main.go mounts it under the middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.ListEvents)
		r.Post("/", s.CreateEvent)
		r.Get("/{id}", s.GetEvent)
		r.Put("/{id}", s.UpdateEvent)
		r.Delete("/{id}", s.DeleteEvent)
	})

	r.Get("/destinations", s.ListDestinations)
	r.Get("/offers", s.ListOffers)
	return r
}
