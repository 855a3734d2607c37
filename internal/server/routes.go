package server

import "net/http"

func (s *Server) routes() {
	s.router.Use(loggingMiddleware(s.logger))

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/plan", s.handlePlan).Methods(http.MethodGet)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/itinerary", s.handleItinerary).Methods(http.MethodGet)
	api.HandleFunc("/concerts", s.handleBrowse).Methods(http.MethodGet)

	api.HandleFunc("/selections", s.handleClear).Methods(http.MethodDelete)
	api.HandleFunc("/selections/{id}", s.handleAdd).Methods(http.MethodPost)
	api.HandleFunc("/selections/{id}", s.handleRemove).Methods(http.MethodDelete)
	api.HandleFunc("/selections/{id}/priority", s.handleSetPriority).Methods(http.MethodPut)
	api.HandleFunc("/selections/{id}/conflicts", s.handleConflicts).Methods(http.MethodGet)
	api.HandleFunc("/swap", s.handleSwap).Methods(http.MethodPost)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "no such endpoint")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}
