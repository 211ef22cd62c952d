// Package models defines the core data structures for users, packing lists,
// items and categories.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Email is the user's unique email address.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`
	// CreatedAt is the registration timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Category is a shared, read-only label used to group items.
type Category struct {
	// ID is the unique identifier for the category.
	ID int64 `json:"id"`
	// Name is the display name of the category.
	Name string `json:"name"`
}

// PackingList is a named collection of items owned by exactly one user.
type PackingList struct {
	// ID is the unique identifier for the list.
	ID int64 `json:"id"`
	// UserID is the owning user.
	UserID int64 `json:"user_id"`
	// Title is the required list title, at most 100 characters.
	Title string `json:"title"`
	// Description is optional free text.
	Description string `json:"description"`
	// TripDate is an optional calendar date in YYYY-MM-DD form.
	TripDate *string `json:"trip_date,omitempty"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the last modification timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// ListWithCounts is a packing list together with its aggregate item counts.
// A list with no items carries zero counts rather than being absent.
type ListWithCounts struct {
	PackingList
	// TotalItems is the number of items on the list.
	TotalItems int `json:"total_items"`
	// PackedItems is the number of items marked packed.
	PackedItems int `json:"packed_items"`
}

// Item is a single packable entry within a list.
type Item struct {
	// ID is the unique identifier for the item.
	ID int64 `json:"id"`
	// PackingListID is the owning list.
	PackingListID int64 `json:"packing_list_id"`
	// CategoryID references a category, nil when uncategorized.
	CategoryID *int64 `json:"category_id,omitempty"`
	// Name is the required item name, at most 100 characters.
	Name string `json:"name"`
	// Quantity is how many of the item to pack, always at least 1.
	Quantity int `json:"quantity"`
	// IsPacked reports whether the item has been packed.
	IsPacked bool `json:"is_packed"`
	// Notes is optional free text.
	Notes string `json:"notes"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// ItemWithCategoryName is an item with its category name resolved.
// CategoryName is empty for uncategorized items; display layers map that
// to "Uncategorized".
type ItemWithCategoryName struct {
	Item
	CategoryName string `json:"category_name"`
}

// ListStats summarizes the packing progress of a single list.
type ListStats struct {
	// TotalItems is the number of items on the list.
	TotalItems int `json:"total_items"`
	// PackedItems is the number of packed items.
	PackedItems int `json:"packed_items"`
	// UnpackedItems is the number of unpacked items.
	UnpackedItems int `json:"unpacked_items"`
	// CategoriesUsed is the number of distinct categories in use.
	CategoriesUsed int `json:"categories_used"`
	// CompletionPercentage is packed/total as a percentage, rounded to
	// one decimal place; 0 when the list is empty.
	CompletionPercentage float64 `json:"completion_percentage"`
}
