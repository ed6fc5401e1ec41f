package handler

import "net/http"

// ListDestinations handles GET /destinations.
func (s *Server) ListDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := s.catalog.Destinations(r.Context())
	if err != nil {
		writeServiceError(w, r, "destination", err)
		return
	}
	writeJSON(w, http.StatusOK, destinations)
}

// ListOffers handles GET /offers.
func (s *Server) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.catalog.Offers(r.Context())
	if err != nil {
		writeServiceError(w, r, "offer", err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}
