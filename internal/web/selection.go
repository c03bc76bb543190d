package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"citybus-tracker/internal/dashboard"
)

var validate = validator.New()

// routeRequest selects any route code, known to the catalog or not.
type routeRequest struct {
	// Route is null for "All Routes".
	Route *string `json:"route"`
}

// queryRequest carries the search text verbatim.
type queryRequest struct {
	Query string `json:"query"`
}

type stopRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required_without=ID"`
	Route string `json:"route"`
}

// decode fills dst from a JSON body or, for HTML forms, from form values via
// fromForm. The result is validated either way.
func decode(r *http.Request, dst interface{}, fromForm func(get func(string) string)) error {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return err
		}
		fromForm(r.PostForm.Get)
	} else if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// respond writes the page for JSON clients and redirects form posts back to
// the dashboard.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, ctr *dashboard.Container) {
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Render(s.catalog, s.snapshot(), ctr.Selection()))
}

func (s *Server) handleSelectRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	err := decode(r, &req, func(get func(string) string) {
		// The "All Routes" button posts an empty value.
		if v := get("route"); v != "" {
			req.Route = &v
		}
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	ctr := s.sessions.Container(sessionID(w, r))
	ctr.Dispatch(dashboard.SelectRoute{Route: req.Route})
	s.respond(w, r, ctr)
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	err := decode(r, &req, func(get func(string) string) {
		req.Query = get("query")
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	ctr := s.sessions.Container(sessionID(w, r))
	ctr.Dispatch(dashboard.SetQuery{Query: req.Query})
	s.respond(w, r, ctr)
}

// handleSelectStop accepts either a stop id, which is expanded from the
// registry, or a bare name and route as sent by the arrivals list.
func (s *Server) handleSelectStop(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	err := decode(r, &req, func(get func(string) string) {
		req.ID = get("id")
		req.Name = get("name")
		req.Route = get("route")
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sel := dashboard.StopSelection{ID: req.ID, Name: req.Name, Route: req.Route}
	if req.ID != "" {
		found := false
		for _, st := range s.reg.Stops() {
			if st.ID == req.ID {
				sel = dashboard.SelectionFromStop(st)
				found = true
				break
			}
		}
		if !found && req.Name == "" {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "stop not found"})
			return
		}
	}

	ctr := s.sessions.Container(sessionID(w, r))
	ctr.Dispatch(dashboard.SelectStop{Stop: sel})
	s.respond(w, r, ctr)
}

func (s *Server) handleCloseStop(w http.ResponseWriter, r *http.Request) {
	ctr := s.sessions.Container(sessionID(w, r))
	ctr.Dispatch(dashboard.CloseStop{})
	s.respond(w, r, ctr)
}
