// ABOUTME: Item handlers: create, list, get, update, delete, and stats summary
// ABOUTME: Ownership visibility is re-derived from the principal on every call

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stashhq/stashd/internal/auth"
	"github.com/stashhq/stashd/internal/store"
	"github.com/stashhq/stashd/internal/uploads"
)

// multipartFormLimit bounds how much of a multipart body is held in memory
// while parsing. The upload ceiling itself is enforced by the attachment store.
const multipartFormLimit = 8 << 20

// ItemResponse is the JSON representation of an item.
type ItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageRef    string `json:"image_ref,omitempty"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ListItemsResponse is the JSON response for GET /items.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// StatsSummaryResponse is the JSON response for GET /items/stats/summary.
type StatsSummaryResponse struct {
	ByCategory map[string]int `json:"by_category"`
	Total      int            `json:"total"`
}

func itemResponse(item *store.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    string(item.Category),
		ImageRef:    item.ImageRef,
		OwnerID:     item.OwnerID,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

// handleCreateItem handles POST /items (multipart: title, description?,
// category?, image?). The owner is always the authenticated principal; any
// caller-supplied owner value is ignored.
func (a *API) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		a.writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	category := store.CategoryGeneral
	if v := r.FormValue("category"); v != "" {
		category = store.Category(v)
		if !store.ValidCategory(category) {
			a.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid category: %s", v))
			return
		}
	}

	imageRef, ok := a.saveUpload(w, r)
	if !ok {
		return
	}

	item := &store.Item{
		Title:       title,
		Description: r.FormValue("description"),
		Category:    category,
		ImageRef:    imageRef,
		OwnerID:     authCtx.UserID,
	}

	if err := a.Items.CreateItem(r.Context(), item); err != nil {
		a.serverError(w, "creating item", err)
		return
	}

	a.writeJSON(w, http.StatusOK, itemResponse(item))
}

// handleListItems handles GET /items with search, category, page, and limit
// query parameters. Admins see all matching items; everyone else only their
// own. The page and its total are two separate reads and may straddle
// concurrent writes.
func (a *API) handleListItems(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	filter := store.ItemFilter{
		Search: r.URL.Query().Get("search"),
	}
	if !authCtx.IsAdmin() {
		filter.OwnerID = &authCtx.UserID
	}
	if v := r.URL.Query().Get("category"); v != "" && v != "All" {
		category := store.Category(v)
		if !store.ValidCategory(category) {
			a.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid category: %s", v))
			return
		}
		filter.Category = &category
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", store.DefaultPageLimit)
	if limit < 1 {
		limit = store.DefaultPageLimit
	}
	if limit > store.MaxPageLimit {
		limit = store.MaxPageLimit
	}

	items, err := a.Items.ListItems(r.Context(), filter, store.ItemPage{Page: page, Limit: limit})
	if err != nil {
		a.serverError(w, "listing items", err)
		return
	}

	total, err := a.Items.CountItems(r.Context(), filter)
	if err != nil {
		a.serverError(w, "counting items", err)
		return
	}

	response := ListItemsResponse{
		Items: make([]ItemResponse, 0, len(items)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, item := range items {
		response.Items = append(response.Items, itemResponse(item))
	}

	a.writeJSON(w, http.StatusOK, response)
}

// handleGetItem handles GET /items/{id}. Owner or admin only.
func (a *API) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := a.fetchAccessibleItem(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, itemResponse(item))
}

// handleUpdateItem handles PUT /items/{id} (multipart, partial update).
// Only supplied fields are overwritten; ownership is never mutable here.
func (a *API) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := a.fetchAccessibleItem(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var update store.ItemUpdate
	if v := strings.TrimSpace(r.FormValue("title")); v != "" {
		update.Title = &v
	}
	if v := r.FormValue("description"); v != "" {
		update.Description = &v
	}
	if v := r.FormValue("category"); v != "" {
		category := store.Category(v)
		if !store.ValidCategory(category) {
			a.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid category: %s", v))
			return
		}
		update.Category = &category
	}
	if imageRef, ok := a.saveUpload(w, r); !ok {
		return
	} else if imageRef != "" {
		update.ImageRef = &imageRef
	}

	updated, err := a.Items.UpdateItem(r.Context(), item.ID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "item not found")
			return
		}
		a.serverError(w, "updating item", err)
		return
	}

	a.writeJSON(w, http.StatusOK, itemResponse(updated))
}

// handleDeleteItem handles DELETE /items/{id}. Owner or admin only; removal
// is immediate and irreversible.
func (a *API) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := a.fetchAccessibleItem(w, r)
	if !ok {
		return
	}

	if err := a.Items.DeleteItem(r.Context(), item.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "item not found")
			return
		}
		a.serverError(w, "deleting item", err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"msg": "item deleted successfully"})
}

// handleStatsSummary handles GET /items/stats/summary. The total comes from
// an independent full-scope count, not from summing the groups.
func (a *API) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	var ownerScope *string
	if !authCtx.IsAdmin() {
		ownerScope = &authCtx.UserID
	}

	counts, err := a.Items.CountItemsByCategory(r.Context(), ownerScope)
	if err != nil {
		a.serverError(w, "aggregating items", err)
		return
	}

	total, err := a.Items.CountItems(r.Context(), store.ItemFilter{OwnerID: ownerScope})
	if err != nil {
		a.serverError(w, "counting items", err)
		return
	}

	byCategory := make(map[string]int, len(counts))
	for category, count := range counts {
		byCategory[string(category)] = count
	}

	a.writeJSON(w, http.StatusOK, StatsSummaryResponse{ByCategory: byCategory, Total: total})
}

// fetchAccessibleItem loads the item from the path and applies the ownership
// predicate. Writes the error response and returns ok=false on failure.
func (a *API) fetchAccessibleItem(w http.ResponseWriter, r *http.Request) (*store.Item, bool) {
	authCtx := auth.MustFromContext(r.Context())

	item, err := a.Items.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "item not found")
			return nil, false
		}
		a.serverError(w, "fetching item", err)
		return nil, false
	}

	if !authCtx.CanAccess(item.OwnerID) {
		a.writeError(w, http.StatusForbidden, "not allowed")
		return nil, false
	}

	return item, true
}

// saveUpload stores the optional "image" part of an already-parsed multipart
// form. Returns the attachment reference ("" when no file was sent) and
// ok=false if an error response was written.
func (a *API) saveUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", true
	}
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid image upload")
		return "", false
	}
	defer file.Close()

	data, err := readBounded(file)
	if err != nil {
		if errors.Is(err, uploads.ErrTooLarge) {
			a.writeError(w, http.StatusBadRequest, "payload too large (max 5 MiB)")
			return "", false
		}
		a.serverError(w, "reading upload", err)
		return "", false
	}

	ref, err := a.Uploads.Save(data, filepath.Ext(header.Filename))
	if err != nil {
		if errors.Is(err, uploads.ErrTooLarge) {
			a.writeError(w, http.StatusBadRequest, "payload too large (max 5 MiB)")
			return "", false
		}
		a.serverError(w, "storing upload", err)
		return "", false
	}

	return ref, true
}

// readBounded reads at most the upload ceiling plus one byte, so an oversized
// payload is detected without buffering the whole thing.
func readBounded(file multipart.File) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, uploads.MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > uploads.MaxSize {
		return nil, uploads.ErrTooLarge
	}
	return data, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
