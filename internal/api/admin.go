// ABOUTME: Admin-only account management handlers behind the role gate
// ABOUTME: Lists accounts, deletes them, changes roles, and force-resets credentials

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stashhq/stashd/internal/store"
)

// DefaultResetPassword is the fixed credential applied by the reset endpoint.
// This mirrors the legacy behavior of resetting to a publicly known value.
// TODO: replace with a time-boxed single-use reset token before production use.
const DefaultResetPassword = "password123"

// UserResponse is the JSON representation of an account. The credential hash
// is deliberately not part of this struct.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// SetRoleRequest is the JSON request body for PUT /admin/users/{id}/role.
type SetRoleRequest struct {
	Role string `json:"role"`
}

func userResponse(user *store.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// handleListUsers handles GET /admin/users.
func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.ListUsers(r.Context())
	if err != nil {
		a.serverError(w, "listing users", err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, userResponse(user))
	}

	a.writeJSON(w, http.StatusOK, response)
}

// handleDeleteUser handles DELETE /admin/users/{id}. Deleting an account that
// is already gone succeeds silently.
func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := a.Users.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		a.serverError(w, "deleting user", err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"msg": "user deleted successfully"})
}

// handleSetUserRole handles PUT /admin/users/{id}/role.
func (a *API) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := store.Role(req.Role)
	if !store.ValidRole(role) {
		a.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid role: %s", req.Role))
		return
	}

	user, err := a.Users.SetUserRole(r.Context(), r.PathValue("id"), role)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.serverError(w, "updating user role", err)
		return
	}

	a.writeJSON(w, http.StatusOK, userResponse(user))
}

// handleResetPassword handles PUT /admin/users/{id}/reset-password. The
// credential is replaced with the fixed default, hashed before storage.
func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultResetPassword), bcrypt.DefaultCost)
	if err != nil {
		a.serverError(w, "hashing password", err)
		return
	}

	if err := a.Users.SetUserPassword(r.Context(), r.PathValue("id"), string(hash)); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.serverError(w, "resetting password", err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"msg": "password reset to default"})
}
