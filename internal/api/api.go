// ABOUTME: HTTP API surface for stashd: routing, middleware wiring, JSON helpers
// ABOUTME: All responses are JSON; errors use the {"msg": ...} shape

package api

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/stashhq/stashd/internal/auth"
	"github.com/stashhq/stashd/internal/store"
	"github.com/stashhq/stashd/internal/uploads"
)

// API holds the dependencies for the HTTP handlers.
type API struct {
	Items    store.ItemStore
	Users    store.UserStore
	Uploads  uploads.Store
	Verifier *auth.JWTVerifier
	TokenTTL time.Duration

	// UploadsDir, when set, is served read-only under /uploads/.
	UploadsDir string

	Logger *slog.Logger
}

// New creates an API with a component-scoped logger.
func New(items store.ItemStore, users store.UserStore, up uploads.Store, verifier *auth.JWTVerifier, tokenTTL time.Duration, uploadsDir string) *API {
	return &API{
		Items:      items,
		Users:      users,
		Uploads:    up,
		Verifier:   verifier,
		TokenTTL:   tokenTTL,
		UploadsDir: uploadsDir,
		Logger:     slog.Default().With("component", "api"),
	}
}

// Routes builds the request multiplexer. Every /items and /admin route passes
// through the auth middleware; /admin routes additionally pass the role gate.
// Middleware failures short-circuit before any handler or store access.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	authed := auth.Middleware(a.Users, a.Verifier)
	admin := auth.RequireAdmin()

	mux.HandleFunc("GET /health", a.handleHealth)

	mux.HandleFunc("POST /auth/register", a.handleRegister)
	mux.HandleFunc("POST /auth/login", a.handleLogin)
	mux.Handle("GET /auth/me", authed(http.HandlerFunc(a.handleMe)))

	mux.Handle("POST /items", authed(http.HandlerFunc(a.handleCreateItem)))
	mux.Handle("GET /items", authed(http.HandlerFunc(a.handleListItems)))
	mux.Handle("GET /items/stats/summary", authed(http.HandlerFunc(a.handleStatsSummary)))
	mux.Handle("GET /items/{id}", authed(http.HandlerFunc(a.handleGetItem)))
	mux.Handle("PUT /items/{id}", authed(http.HandlerFunc(a.handleUpdateItem)))
	mux.Handle("DELETE /items/{id}", authed(http.HandlerFunc(a.handleDeleteItem)))

	mux.Handle("GET /admin/users", authed(admin(http.HandlerFunc(a.handleListUsers))))
	mux.Handle("DELETE /admin/users/{id}", authed(admin(http.HandlerFunc(a.handleDeleteUser))))
	mux.Handle("PUT /admin/users/{id}/role", authed(admin(http.HandlerFunc(a.handleSetUserRole))))
	mux.Handle("PUT /admin/users/{id}/reset-password", authed(admin(http.HandlerFunc(a.handleResetPassword))))

	if a.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(filesOnlyDir(a.UploadsDir))))
	}

	return mux
}

// filesOnlyDir serves regular files and reports directories as absent.
// Attachment names are only knowable to whoever stored or received them, so
// the mount must never produce an index listing.
type filesOnlyDir string

func (d filesOnlyDir) Open(name string) (http.File, error) {
	f, err := http.Dir(d).Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status code.
func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Logger.Error("encoding response", "error", err)
	}
}

// writeError writes a {"msg": ...} error body with the given status code.
func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"msg": msg})
}

// serverError logs the underlying failure and returns a generic 500 so
// internal detail never reaches the caller.
func (a *API) serverError(w http.ResponseWriter, op string, err error) {
	a.Logger.Error(op, "error", err)
	a.writeError(w, http.StatusInternalServerError, "server error")
}
