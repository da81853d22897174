// ABOUTME: Tests for item CRUD, filtered listing, pagination, and aggregation
// ABOUTME: Covers ownership scoping, search, category filters, and count consistency

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	item := &Item{
		Title:       "Groceries",
		Description: "weekly run",
		Category:    CategoryPersonal,
		OwnerID:     "user-a",
	}
	require.NoError(t, store.CreateItem(ctx, item))

	// Should have generated ID and timestamps
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.False(t, item.UpdatedAt.IsZero())

	got, err := store.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)
	assert.Equal(t, "weekly run", got.Description)
	assert.Equal(t, CategoryPersonal, got.Category)
	assert.Equal(t, "user-a", got.OwnerID)
	assert.Empty(t, got.ImageRef)
}

func TestItemStore_Create_DefaultsCategory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	item := &Item{Title: "untyped", OwnerID: "user-a"}
	require.NoError(t, store.CreateItem(ctx, item))

	got, err := store.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, CategoryGeneral, got.Category)
}

func TestItemStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetItem(context.Background(), "no-such-item")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemStore_List_OwnershipScoping(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateItem(t, store, "user-a", "a1", CategoryGeneral)
	mustCreateItem(t, store, "user-a", "a2", CategoryWork)
	mustCreateItem(t, store, "user-b", "b1", CategoryGeneral)

	ownerA := "user-a"
	items, err := store.ListItems(ctx, ItemFilter{OwnerID: &ownerA}, ItemPage{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "user-a", item.OwnerID)
	}

	// Nil owner filter sees everything
	all, err := store.ListItems(ctx, ItemFilter{}, ItemPage{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestItemStore_List_SearchCaseInsensitive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateItem(t, store, "user-a", "Weekly Groceries", CategoryPersonal)
	mustCreateItem(t, store, "user-a", "GROCERY backup", CategoryPersonal)
	mustCreateItem(t, store, "user-a", "Taxes", CategoryOther)

	items, err := store.ListItems(ctx, ItemFilter{Search: "groc"}, ItemPage{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = store.ListItems(ctx, ItemFilter{Search: "GROCERIES"}, ItemPage{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Weekly Groceries", items[0].Title)

	items, err = store.ListItems(ctx, ItemFilter{Search: "nothing-matches"}, ItemPage{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemStore_List_CategoryFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateItem(t, store, "user-a", "w1", CategoryWork)
	mustCreateItem(t, store, "user-a", "w2", CategoryWork)
	mustCreateItem(t, store, "user-a", "p1", CategoryPersonal)

	work := CategoryWork
	items, err := store.ListItems(ctx, ItemFilter{Category: &work}, ItemPage{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, CategoryWork, item.Category)
	}
}

func TestItemStore_List_OrderingNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		item := &Item{
			ID:        generateTestID("item", i),
			Title:     fmt.Sprintf("item %d", i),
			OwnerID:   "user-a",
			CreatedAt: at(i),
			UpdatedAt: at(i),
		}
		require.NoError(t, store.CreateItem(ctx, item))
	}

	items, err := store.ListItems(ctx, ItemFilter{}, ItemPage{})
	require.NoError(t, err)
	require.Len(t, items, 5)

	// Most recent creation first
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt),
			"items must be ordered newest first")
	}
	assert.Equal(t, "item 4", items[0].Title)
	assert.Equal(t, "item 0", items[4].Title)
}

func TestItemStore_List_Pagination(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		item := &Item{
			ID:        generateTestID("item", i),
			Title:     fmt.Sprintf("item %d", i),
			OwnerID:   "user-a",
			CreatedAt: at(i),
			UpdatedAt: at(i),
		}
		require.NoError(t, store.CreateItem(ctx, item))
	}

	// Default limit is 8
	page1, err := store.ListItems(ctx, ItemFilter{}, ItemPage{})
	require.NoError(t, err)
	assert.Len(t, page1, DefaultPageLimit)

	// Second page continues where the first left off
	page2, err := store.ListItems(ctx, ItemFilter{}, ItemPage{Page: 2})
	require.NoError(t, err)
	require.Len(t, page2, DefaultPageLimit)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)

	// Page past the end is empty, not an error
	far, err := store.ListItems(ctx, ItemFilter{}, ItemPage{Page: 99, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, far)

	// Oversized limit clamps to the cap
	clamped, err := store.ListItems(ctx, ItemFilter{}, ItemPage{Limit: 1000})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(clamped), MaxPageLimit)
	assert.Len(t, clamped, 20)

	// Page below 1 behaves as page 1
	first, err := store.ListItems(ctx, ItemFilter{}, ItemPage{Page: -3, Limit: 5})
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, page1[0].ID, first[0].ID)
}

func TestItemStore_Count(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateItem(t, store, "user-a", "a1", CategoryWork)
	mustCreateItem(t, store, "user-a", "a2", CategoryWork)
	mustCreateItem(t, store, "user-b", "b1", CategoryPersonal)

	total, err := store.CountItems(ctx, ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	ownerA := "user-a"
	scoped, err := store.CountItems(ctx, ItemFilter{OwnerID: &ownerA})
	require.NoError(t, err)
	assert.Equal(t, 2, scoped)

	// Count ignores pagination entirely: the same filter with any page still
	// reports the full match count
	work := CategoryWork
	workCount, err := store.CountItems(ctx, ItemFilter{Category: &work})
	require.NoError(t, err)
	assert.Equal(t, 2, workCount)
}

func TestItemStore_Update_Partial(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	item := &Item{
		Title:       "original",
		Description: "keep me",
		Category:    CategoryStudy,
		OwnerID:     "user-a",
	}
	require.NoError(t, store.CreateItem(ctx, item))

	newTitle := "renamed"
	updated, err := store.UpdateItem(ctx, item.ID, ItemUpdate{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, CategoryStudy, updated.Category)
	assert.Equal(t, "user-a", updated.OwnerID)
}

func TestItemStore_Update_NotFound(t *testing.T) {
	store := setupTestStore(t)

	title := "x"
	_, err := store.UpdateItem(context.Background(), "no-such-item", ItemUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemStore_Update_TouchesUpdatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	item := &Item{
		Title:     "stamped",
		OwnerID:   "user-a",
		CreatedAt: at(0),
		UpdatedAt: at(0),
	}
	require.NoError(t, store.CreateItem(ctx, item))

	desc := "touched"
	updated, err := store.UpdateItem(ctx, item.ID, ItemUpdate{Description: &desc})
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt.After(at(0)))
	assert.True(t, updated.CreatedAt.Equal(at(0)), "created_at must not move on update")
}

func TestItemStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	item := mustCreateItem(t, store, "user-a", "doomed", CategoryGeneral)
	require.NoError(t, store.DeleteItem(ctx, item.ID))

	_, err := store.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Second delete reports not found
	assert.ErrorIs(t, store.DeleteItem(ctx, item.ID), ErrNotFound)
}

func TestItemStore_CountByCategory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreateItem(t, store, "user-a", "w1", CategoryWork)
	mustCreateItem(t, store, "user-a", "w2", CategoryWork)
	mustCreateItem(t, store, "user-a", "p1", CategoryPersonal)
	mustCreateItem(t, store, "user-b", "g1", CategoryGeneral)

	// Unscoped view
	counts, err := store.CountItemsByCategory(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[CategoryWork])
	assert.Equal(t, 1, counts[CategoryPersonal])
	assert.Equal(t, 1, counts[CategoryGeneral])

	// Empty categories are omitted, not zero-valued
	_, present := counts[CategoryStudy]
	assert.False(t, present)

	// Sum of groups matches the full count
	total, err := store.CountItems(ctx, ItemFilter{})
	require.NoError(t, err)
	sum := 0
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, total, sum)

	// Owner-scoped view
	ownerA := "user-a"
	scoped, err := store.CountItemsByCategory(ctx, &ownerA)
	require.NoError(t, err)
	assert.Equal(t, 2, scoped[CategoryWork])
	assert.Equal(t, 1, scoped[CategoryPersonal])
	_, present = scoped[CategoryGeneral]
	assert.False(t, present, "other owners' items must not leak into a scoped summary")
}

func TestItemStore_CountByCategory_Empty(t *testing.T) {
	store := setupTestStore(t)

	counts, err := store.CountItemsByCategory(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestItemStore_TimestampsRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	item := &Item{
		Title:     "pi day",
		OwnerID:   "user-a",
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, store.CreateItem(ctx, item))

	got, err := store.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(created))
}
