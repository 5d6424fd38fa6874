package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"studivio/internal/auth"
	"studivio/internal/logging"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respond(w, r, http.StatusBadRequest, render.M{"Message": "Invalid request body"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Struct(req); err != nil {
		respond(w, r, http.StatusBadRequest, render.M{"Message": "Username and password are required"})
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("password hashing failed", logging.Error(err))
		respond(w, r, http.StatusInternalServerError, render.M{"Message": "Registration failed"})
		return
	}
	created, err := s.store.CreateUser(r.Context(), req.Username, hash)
	if err != nil {
		logger.Error("user creation failed", logging.Error(err))
		respond(w, r, http.StatusInternalServerError, render.M{"Message": "Registration failed"})
		return
	}
	if !created {
		respond(w, r, http.StatusConflict, render.M{"Message": "The user already exists"})
		return
	}
	logger.Info("user registered", logging.String("username", req.Username))
	respond(w, r, http.StatusCreated, render.M{"Message": "User Created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, r, http.StatusUnauthorized, "Login Failed")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Struct(req); err != nil {
		respondMessage(w, r, http.StatusUnauthorized, "Login Failed")
		return
	}
	user, err := s.store.GetUser(r.Context(), req.Username)
	if err != nil {
		logger.Error("user lookup failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Login Failed")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.Info("login rejected", logging.String("username", req.Username))
		respondMessage(w, r, http.StatusUnauthorized, "Login Failed")
		return
	}
	token, _, err := s.auth.Issuer().Issue(user.Username)
	if err != nil {
		logger.Error("token issue failed", logging.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Login Failed")
		return
	}
	respond(w, r, http.StatusOK, LoginResponse{
		AccessToken: token,
		Message:     "Login successful",
		Username:    user.Username,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.auth.Logout(r.Context(), claims); err != nil {
		s.requestLogger(r).Error("token revocation failed", logging.Error(err))
		respond(w, r, http.StatusInternalServerError, render.M{"Message": "Logout failed"})
		return
	}
	respond(w, r, http.StatusOK, render.M{"Message": "User Logged Out"})
}

func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, render.M{"logged_in_as": currentUser(r)})
}
