// ABOUTME: HTTP API handlers exposing the account store as JSON endpoints
// ABOUTME: Maps domain negatives to status codes and hides storage failure details

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2389/coven-accounts/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// RegisterRequest is the JSON request body for POST /api/accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// RegisterResponse is the JSON response for POST /api/accounts.
type RegisterResponse struct {
	Registered bool `json:"registered"`
}

// AuthenticateRequest is the JSON request body for POST /api/authenticate.
type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthenticateResponse is the JSON response for POST /api/authenticate.
type AuthenticateResponse struct {
	Authenticated bool `json:"authenticated"`
}

// AccountResponse is the JSON response for GET /api/accounts/{username}.
type AccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// handleRegister handles POST /api/accounts.
// Returns 201 on success, 409 when the username is taken and 400 on invalid input.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ok, err := s.accounts.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		s.handleStoreError(w, "register", err)
		return
	}

	status := http.StatusCreated
	if !ok {
		status = http.StatusConflict
	}
	s.sendJSON(w, status, RegisterResponse{Registered: ok})
}

// handleAuthenticate handles POST /api/authenticate.
// Bad credentials are a normal 200 response with authenticated=false.
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ok, err := s.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleStoreError(w, "authenticate", err)
		return
	}

	s.sendJSON(w, http.StatusOK, AuthenticateResponse{Authenticated: ok})
}

// handleGetAccount handles GET /api/accounts/{username}.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	account, found, err := s.accounts.GetInfo(r.Context(), username)
	if err != nil {
		s.handleStoreError(w, "get_info", err)
		return
	}
	if !found {
		s.sendJSONError(w, http.StatusNotFound, "account not found")
		return
	}

	s.sendJSON(w, http.StatusOK, AccountResponse{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
	})
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Ping(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleStoreError maps store errors to responses. Storage failures are
// logged with their cause and reported to the client without it.
func (s *Server) handleStoreError(w http.ResponseWriter, op string, err error) {
	var inputErr *store.InvalidInputError
	if errors.As(err, &inputErr) {
		s.sendJSONError(w, http.StatusBadRequest, inputErr.Error())
		return
	}

	s.logger.Error("account store failure", "op", op, "error", err)
	s.sendJSONError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("writing response", "error", err)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}
