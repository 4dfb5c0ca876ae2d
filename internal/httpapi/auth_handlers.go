package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/logger"
	"github.com/eleven-am/taskboard/internal/models"
	"github.com/eleven-am/taskboard/internal/store"
)

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return nil
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireEmail("email", req.Email)
	rules.requirePassword("password", req.Password, s.cfg.Password.MinLength)
	rules.requireText("firstName", req.FirstName, 2, 50)
	rules.requireText("lastName", req.LastName, 2, 50)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.store.Users.GetByEmail(r.Context(), email); err == nil {
		respondError(w, apperr.Conflict("User with this email already exists"))
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	user := &models.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Avatar:    "https://api.dicebear.com/7.x/avataaars/svg?seed=" + email,
	}
	if err := s.store.Users.Create(r.Context(), user); err != nil {
		respondError(w, err)
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Auth().WithField("user", user.ID).Info("registered")
	respondCreated(w, authResponse{User: user, Token: token}, "Registration successful")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	rules.requireEmail("email", req.Email)
	if req.Password == "" {
		rules.add("password", "Password is required")
	}
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Same message for unknown email and bad password, to avoid user
	// enumeration.
	user, err := s.store.Users.GetByEmail(r.Context(), email)
	if err != nil {
		respondError(w, apperr.Unauthorized("Invalid email or password"))
		return
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		respondError(w, apperr.Unauthorized("Invalid email or password"))
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, authResponse{User: user, Token: token}, "Login successful")
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	user, err := s.store.Users.GetByID(r.Context(), principal.ID)
	if err != nil {
		respondError(w, apperr.NotFound("User not found"))
		return
	}

	counts, err := s.store.Users.Counts(r.Context(), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	user.Counts = counts

	respond(w, user, "")
}

type updateMeRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Avatar    *string `json:"avatar"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	var req updateMeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	if req.FirstName != nil {
		rules.textLength("firstName", *req.FirstName, 2, 50)
	}
	if req.LastName != nil {
		rules.textLength("lastName", *req.LastName, 2, 50)
	}
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.store.Users.UpdateProfile(r.Context(), principal.ID, store.UpdateProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    req.Avatar,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, user, "Profile updated successfully")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rules := &fieldRules{}
	if req.CurrentPassword == "" {
		rules.add("currentPassword", "Current password is required")
	}
	rules.requirePassword("newPassword", req.NewPassword, s.cfg.Password.MinLength)
	if err := rules.err(); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.store.Users.GetByID(r.Context(), principal.ID)
	if err != nil {
		respondError(w, apperr.NotFound("User not found"))
		return
	}

	if !s.hasher.Compare(user.Password, req.CurrentPassword) {
		respondError(w, apperr.Unauthorized("Current password is incorrect"))
		return
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := s.store.Users.UpdatePassword(r.Context(), principal.ID, hash); err != nil {
		respondError(w, err)
		return
	}

	respond(w, nil, "Password changed successfully")
}
