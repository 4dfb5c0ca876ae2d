package httpapi

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/models"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := s.pagination(r)

	users, total, err := s.store.Users.List(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondPaginated(w, users, page, limit, total)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.store.Users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, apperr.NotFound("User not found"))
		return
	}

	counts, err := s.store.Users.Counts(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	user.Counts = counts

	respond(w, user, "")
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = v
	}

	// Queries shorter than two characters return an empty result rather
	// than an error, for autocomplete ergonomics.
	if utf8.RuneCountInString(q) < 2 {
		respond(w, []models.UserRef{}, "")
		return
	}

	users, err := s.store.Users.Search(r.Context(), q, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, users, "")
}
