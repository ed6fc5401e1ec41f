package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripboard/internal/domain"
)

// ListEvents handles GET /events.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "event", err)
		return
	}
	out := make([]domain.TripEvent, len(events))
	for i, e := range events {
		out[i] = eventToResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateEvent handles POST /events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var body domain.TripEvent
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.events.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, "event", err)
		return
	}
	writeJSON(w, http.StatusCreated, eventToResponse(created))
}

// GetEvent handles GET /events/{id}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	event, err := s.events.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "event", err)
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(event))
}

// UpdateEvent handles PUT /events/{id}. The body is the whole event; the path
// id wins, and a conflicting id in the body is rejected.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body domain.TripEvent
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ID != uuid.Nil && body.ID != id {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("id in body does not match path"))
		return
	}
	body.ID = id

	updated, err := s.events.Update(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, "event", err)
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(updated))
}

// DeleteEvent handles DELETE /events/{id}.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.events.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// pathID binds the {id} path parameter the way generated chi servers do.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid format for parameter id: "+err.Error()))
		return uuid.Nil, false
	}
	return id, true
}

// eventToResponse normalizes an event for the wire: offers is always an array.
func eventToResponse(e domain.TripEvent) domain.TripEvent {
	e = e.Clone()
	if e.OfferIDs == nil {
		e.OfferIDs = []uuid.UUID{}
	}
	return e
}
