// ABOUTME: Store interface and data types for stashd persistence
// ABOUTME: Defines Item, User structs and the store interfaces for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested item does not exist
var ErrNotFound = errors.New("item not found")

// ErrUserNotFound is returned when a requested user does not exist
var ErrUserNotFound = errors.New("user not found")

// ErrNameExists is returned when trying to create a user with a taken name
var ErrNameExists = errors.New("name already exists")

// Role represents an account role. Roles are a closed set; anything outside
// it is rejected at write time.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Category classifies an item. The set is fixed; invalid values are rejected
// at write time rather than stored verbatim.
type Category string

const (
	CategoryGeneral  Category = "General"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryStudy    Category = "Study"
	CategoryOther    Category = "Other"
)

// Categories lists all valid categories.
var Categories = []Category{
	CategoryGeneral,
	CategoryWork,
	CategoryPersonal,
	CategoryStudy,
	CategoryOther,
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryGeneral, CategoryWork, CategoryPersonal, CategoryStudy, CategoryOther:
		return true
	default:
		return false
	}
}

// Item represents a user-owned record. OwnerID is set once at creation and
// never changes for the lifetime of the record.
type Item struct {
	ID          string
	Title       string
	Description string
	Category    Category
	ImageRef    string // opaque attachment reference, e.g. "/uploads/ab12...png"
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User represents an account. PasswordHash is a bcrypt hash and must never
// leave the store layer in API responses.
type User struct {
	ID           string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// ItemFilter restricts ListItems and CountItems. A nil OwnerID means no
// ownership scoping (admin view); Search matches the title by case-insensitive
// substring; a nil Category matches all categories.
type ItemFilter struct {
	OwnerID  *string
	Search   string
	Category *Category
}

// ItemPage bounds a single page of results. Page is 1-based.
type ItemPage struct {
	Page  int
	Limit int
}

// ItemUpdate carries a partial update. Nil fields keep their prior value.
// There is deliberately no owner field: ownership is immutable.
type ItemUpdate struct {
	Title       *string
	Description *string
	Category    *Category
	ImageRef    *string
}

// ItemStore defines the interface for item persistence
type ItemStore interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context, filter ItemFilter, page ItemPage) ([]*Item, error)
	CountItems(ctx context.Context, filter ItemFilter) (int, error)
	UpdateItem(ctx context.Context, id string, update ItemUpdate) (*Item, error)
	DeleteItem(ctx context.Context, id string) error
	CountItemsByCategory(ctx context.Context, ownerID *string) (map[Category]int, error)
}

// UserStore defines the interface for account persistence
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByName(ctx context.Context, name string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id string) error
	SetUserRole(ctx context.Context, id string, role Role) (*User, error)
	SetUserPassword(ctx context.Context, id, passwordHash string) error
	CountUsers(ctx context.Context) (int, error)
}
