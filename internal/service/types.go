// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"errors"
	"fmt"
	"strings"

	"tasker/internal/auth"
)

// PageSize is the fixed number of tasks per page served by the backend.
const PageSize = 10

// Task represents a single task item.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Category    *Category `json:"category"`
	SharedWith  []User    `json:"shared_with"`
}

// Category groups tasks. Immutable once created.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is read-only reference data.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// TaskPage is one page of the task list.
type TaskPage struct {
	Results []Task `json:"results"`
	Count   int    `json:"count"`
}

// PageCount returns the number of pages needed for Count tasks.
func (p TaskPage) PageCount() int {
	return (p.Count + PageSize - 1) / PageSize
}

// TaskInput is the writable part of a task.
// Updates send all fields: the backend performs a full replace.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CategoryID  *int   `json:"category_id"`
}

// Validate checks required fields before anything is sent.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Fields: []string{"title"}}
	}
	return nil
}

// InputFromTask returns the writable fields of t.
func InputFromTask(t Task) TaskInput {
	in := TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
	if t.Category != nil {
		id := t.Category.ID
		in.CategoryID = &id
	}
	return in
}

// Credentials is the token pair issued by login.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ErrAuthentication is returned by Login when the backend rejects the credentials.
var ErrAuthentication = errors.New("invalid username or password")

// ErrSessionExpired is returned when the session could not be refreshed.
// The stored tokens have been cleared and the user must log in again.
var ErrSessionExpired = auth.ErrSessionExpired

// ValidationError reports required fields missing from user input.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("%s required", e.Fields[0])
	}
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}
