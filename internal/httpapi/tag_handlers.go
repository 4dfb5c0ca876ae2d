package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/store"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.Tags.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, tags, "")
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	tag, err := s.store.Tags.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, apperr.NotFound("Tag not found"))
		return
	}

	respond(w, tag, "")
}

type tagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireText("name", req.Name, 1, 50)
	rules.hexColor("color", req.Color)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	tag := &models.Tag{Name: req.Name}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	// The unique index backs this up; surfacing the conflict here gives
	// the caller a tag-specific message.
	if err := s.store.Tags.Create(r.Context(), tag); err != nil {
		if translated := translateStoreError(err); translated != nil && translated.Status == http.StatusConflict {
			respondError(w, apperr.Conflict("Tag with this name already exists"))
			return
		}
		respondError(w, err)
		return
	}

	respondCreated(w, tag, "Tag created successfully")
}

type updateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTagRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if req.Name != nil {
		rules.textLength("name", *req.Name, 1, 50)
	}
	rules.hexColor("color", req.Color)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	tag, err := s.store.Tags.Update(r.Context(), id, store.UpdateTagParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		if translated := translateStoreError(err); translated != nil && translated.Status == http.StatusConflict {
			respondError(w, apperr.Conflict("Tag with this name already exists"))
			return
		}
		respondError(w, err)
		return
	}

	respond(w, tag, "Tag updated successfully")
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules := &fieldRules{}
	rules.requireUUID("id", id)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	if err := s.store.Tags.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	respondNoContent(w)
}
