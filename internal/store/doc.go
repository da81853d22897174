// Package store provides persistent storage for stashd using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with two
// specialized interfaces:
//
//   - ItemStore: CRUD, filtered/paginated listing, and per-category
//     aggregation over items
//   - UserStore: Account listing, role changes, and credential resets
//
// SQLiteStore implements both interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Data Models
//
//   - Item: A user-owned record with title, description, category, and an
//     optional attachment reference. OwnerID is set once at creation and is
//     immutable for the lifetime of the record.
//   - User: An account with a closed-set role (User, Admin) and a bcrypt
//     credential hash.
//
// # Visibility
//
// The store itself does not know about principals; ownership scoping is
// expressed through ItemFilter.OwnerID, which callers derive from the
// authenticated principal on every request. ListItems and CountItems share a
// single filter-clause builder so the page and the total always apply the
// same predicate. The two reads are still separate statements: under
// concurrent writes they may observe different database states, which is an
// accepted property of the listing contract.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Every write is a single-statement, single-row operation; atomicity is
// delegated to SQLite's per-statement transactions.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested item does not exist
//   - ErrUserNotFound: Requested account does not exist
//   - ErrNameExists: Account name already taken
//
// All methods accept context.Context for cancellation support.
package store
