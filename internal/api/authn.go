// ABOUTME: Registration and login handlers issuing HS256 bearer tokens
// ABOUTME: Credentials are bcrypt-hashed; lookups use constant-time dummy compares

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stashhq/stashd/internal/auth"
	"github.com/stashhq/stashd/internal/store"
)

// dummyHash is compared against when the account doesn't exist, keeping login
// timing constant whether or not the name is registered.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CredentialsRequest is the JSON request body for register and login.
type CredentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// handleRegister handles POST /auth/register. New accounts always get the
// User role; promotion goes through the admin role endpoint.
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Password == "" {
		a.writeError(w, http.StatusBadRequest, "name and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.serverError(w, "hashing password", err)
		return
	}

	user := &store.User{
		Name:         req.Name,
		Role:         store.RoleUser,
		PasswordHash: string(hash),
	}
	if err := a.Users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrNameExists) {
			a.writeError(w, http.StatusBadRequest, "name already taken")
			return
		}
		a.serverError(w, "creating user", err)
		return
	}

	a.writeJSON(w, http.StatusOK, userResponse(user))
}

// handleLogin handles POST /auth/login.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.Users.GetUserByName(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn a bcrypt comparison to keep timing constant
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(req.Password))
			a.writeError(w, http.StatusUnauthorized, "invalid name or password")
			return
		}
		a.serverError(w, "fetching user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		a.writeError(w, http.StatusUnauthorized, "invalid name or password")
		return
	}

	token, err := a.Verifier.Generate(user.ID, a.TokenTTL)
	if err != nil {
		a.serverError(w, "generating token", err)
		return
	}

	a.Logger.Info("user logged in", "id", user.ID, "name", user.Name)
	a.writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: userResponse(user)})
}

// handleMe handles GET /auth/me.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	user, err := a.Users.GetUser(r.Context(), authCtx.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.serverError(w, "fetching user", err)
		return
	}

	a.writeJSON(w, http.StatusOK, userResponse(user))
}
