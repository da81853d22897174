// ABOUTME: Item entity store methods for CRUD, filtered listing, and aggregation
// ABOUTME: Ownership scoping is expressed through ItemFilter.OwnerID

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateItem inserts a new item. The ID is generated if empty; timestamps are
// set to now if zero. OwnerID must already be set by the caller and is never
// modified afterwards.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}
	if item.Category == "" {
		item.Category = CategoryGeneral
	}

	query := `
		INSERT INTO items (id, title, description, category, image_ref, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		string(item.Category),
		nullString(item.ImageRef),
		item.OwnerID,
		item.CreatedAt.Format(time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}

	s.logger.Debug("created item", "id", item.ID, "owner_id", item.OwnerID, "category", item.Category)
	return nil
}

// GetItem retrieves an item by ID.
// Returns ErrNotFound if the item doesn't exist.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*Item, error) {
	query := `
		SELECT id, title, description, category, image_ref, owner_id, created_at, updated_at
		FROM items
		WHERE id = ?
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying item: %w", err)
	}
	return item, nil
}

// itemFilterClause builds the WHERE clause and args shared by ListItems,
// CountItems, and CountItemsByCategory so every read applies the exact same
// visibility predicate.
func itemFilterClause(filter ItemFilter) (string, []any) {
	where := "1=1"
	var args []any

	if filter.OwnerID != nil {
		where += " AND owner_id = ?"
		args = append(args, *filter.OwnerID)
	}
	if filter.Search != "" {
		where += " AND instr(lower(title), lower(?)) > 0"
		args = append(args, filter.Search)
	}
	if filter.Category != nil {
		where += " AND category = ?"
		args = append(args, string(*filter.Category))
	}

	return where, args
}

// ListItems returns one page of items matching the filter, most recent first.
// Page is clamped to a minimum of 1; Limit to [1, 50] with a default of 8.
func (s *SQLiteStore) ListItems(ctx context.Context, filter ItemFilter, page ItemPage) ([]*Item, error) {
	p, limit := normalizePage(page)
	where, args := itemFilterClause(filter)

	query := fmt.Sprintf(`
		SELECT id, title, description, category, image_ref, owner_id, created_at, updated_at
		FROM items
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, where)
	args = append(args, limit, (p-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

// CountItems returns the total number of items matching the filter, ignoring
// pagination. This is a separate read from ListItems: under concurrent writes
// the page and the count may observe different database states.
func (s *SQLiteStore) CountItems(ctx context.Context, filter ItemFilter) (int, error) {
	where, args := itemFilterClause(filter)

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM items WHERE %s", where)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// UpdateItem applies a partial update and returns the updated item.
// Nil fields in the update retain their prior value; ownership is not
// updatable through this path. Returns ErrNotFound if the item doesn't exist.
func (s *SQLiteStore) UpdateItem(ctx context.Context, id string, update ItemUpdate) (*Item, error) {
	set := "updated_at = ?"
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	if update.Title != nil {
		set += ", title = ?"
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		set += ", description = ?"
		args = append(args, *update.Description)
	}
	if update.Category != nil {
		set += ", category = ?"
		args = append(args, string(*update.Category))
	}
	if update.ImageRef != nil {
		set += ", image_ref = ?"
		args = append(args, nullString(*update.ImageRef))
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, fmt.Sprintf("UPDATE items SET %s WHERE id = ?", set), args...)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug("updated item", "id", id)
	return s.GetItem(ctx, id)
}

// DeleteItem removes an item by ID. Removal is immediate and irreversible.
// Returns ErrNotFound if the item doesn't exist.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted item", "id", id)
	return nil
}

// CountItemsByCategory returns per-category item counts, scoped to an owner
// when ownerID is non-nil. Categories with no matching items are omitted.
func (s *SQLiteStore) CountItemsByCategory(ctx context.Context, ownerID *string) (map[Category]int, error) {
	where, args := itemFilterClause(ItemFilter{OwnerID: ownerID})

	query := fmt.Sprintf(`
		SELECT category, COUNT(*)
		FROM items
		WHERE %s
		GROUP BY category
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[Category]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts[Category(category)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category counts: %w", err)
	}

	return counts, nil
}

// normalizePage applies the pagination defaults and the hard limit cap.
func normalizePage(page ItemPage) (int, int) {
	p := page.Page
	if p < 1 {
		p = 1
	}
	limit := page.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return p, limit
}

// Pagination bounds for item listings.
const (
	DefaultPageLimit = 8
	MaxPageLimit     = 50
)

// scanner abstracts *sql.Row and *sql.Rows for scanItem.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*Item, error) {
	var item Item
	var category string
	var imageRef sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&category,
		&imageRef,
		&item.OwnerID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	item.Category = Category(category)
	if imageRef.Valid {
		item.ImageRef = imageRef.String
	}
	item.CreatedAt = parseTime(createdAt, "created_at", item.ID)
	item.UpdatedAt = parseTime(updatedAt, "updated_at", item.ID)

	return &item, nil
}
