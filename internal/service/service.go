// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All backend HTTP calls go through this interface.
// Commands never build requests directly.
type Service interface {
	// Login exchanges credentials for a token pair and stores both tokens.
	// Returns ErrAuthentication on rejected credentials; nothing is stored then.
	Login(ctx context.Context, username, password string) (Credentials, error)

	// Register creates a user account.
	Register(ctx context.Context, username, password, email string) error

	// Logout clears the stored session.
	Logout(ctx context.Context) error

	// Authenticated reports whether an access token is stored.
	Authenticated() bool

	// ListTasks returns one page of tasks. page is 1-based; page size is PageSize.
	ListTasks(ctx context.Context, page int) (TaskPage, error)

	// GetTask returns a single task.
	GetTask(ctx context.Context, id int) (Task, error)

	// CreateTask creates a task and returns the stored copy.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces every writable field of a task.
	UpdateTask(ctx context.Context, id int, in TaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int) error

	// ToggleTaskComplete flips the completed flag server-side and returns the result.
	ToggleTaskComplete(ctx context.Context, id int) (Task, error)

	// ShareTask grants a single user access to a task.
	ShareTask(ctx context.Context, taskID, userID int) error

	// ListCategories returns all categories, or an empty slice on any failure.
	ListCategories(ctx context.Context) []Category

	// CreateCategory creates a category.
	CreateCategory(ctx context.Context, name string) (Category, error)

	// ListUsers returns all users, or an empty slice on any failure.
	ListUsers(ctx context.Context) []User
}
