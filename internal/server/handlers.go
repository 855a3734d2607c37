package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/engine"
)

type priorityBody struct {
	Priority int `json:"priority"`
}

type swapBody struct {
	Main     string `json:"main"`
	Conflict string `json:"conflict"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": ServiceName,
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Plan(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Status(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Itinerary(r.Context(), &engine.ItineraryRequest{Day: r.URL.Query().Get("day")})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.planner.Browse(r.Context(), &engine.BrowseRequest{Filter: filter})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Add(r.Context(), &engine.AddRequest{IDs: []string{mux.Vars(r)["id"]}})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Remove(r.Context(), &engine.RemoveRequest{IDs: []string{mux.Vars(r)["id"]}})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleSetPriority(w http.ResponseWriter, r *http.Request) {
	var body priorityBody
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.planner.SetPriority(r.Context(), &engine.SetPriorityRequest{
		ID:       mux.Vars(r)["id"],
		Priority: body.Priority,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Conflicts(r.Context(), &engine.ConflictsRequest{ID: mux.Vars(r)["id"]})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var body swapBody
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.planner.Swap(r.Context(), &engine.SwapRequest{MainID: body.Main, ConflictID: body.Conflict})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Clear(r.Context(), &engine.ClearRequest{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// parseFilter reads browse filters from the query string. Repeated and
// comma-separated values are both accepted.
func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Artist: q.Get("artist"),
		Stages: splitValues(q["stage"]),
	}

	for _, v := range splitValues(q["day"]) {
		day, err := catalog.ParseDay(v)
		if err != nil {
			return catalog.Filter{}, fmt.Errorf("%w: %v", engine.ErrValidation, err)
		}
		filter.Days = append(filter.Days, day)
	}

	for _, v := range splitValues(q["priority"]) {
		p, err := strconv.Atoi(v)
		if err != nil {
			return catalog.Filter{}, fmt.Errorf("%w: invalid priority %q", engine.ErrValidation, v)
		}
		filter.Priorities = append(filter.Priorities, p)
	}

	if v := q.Get("notSelected"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return catalog.Filter{}, fmt.Errorf("%w: invalid notSelected %q", engine.ErrValidation, v)
		}
		filter.NotSelected = b
	}
	return filter, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
