// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"google.golang.org/api/googleapi"

	"tasker/internal/service"
)

// ErrNotFound is returned when a resource is not found.
// It has the shape the REST backend produces for a 404.
var ErrNotFound error = &googleapi.Error{Code: http.StatusNotFound, Message: "Not found."}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu         sync.RWMutex
	tasks      map[int]service.Task
	categories []service.Category
	users      []service.User
	nextID     int
	loggedIn   bool
	shares     map[int][]int // taskID -> userIDs

	// Password accepted by Login for any username.
	Password string

	// Error injection for testing
	LoginErr          error
	RegisterErr       error
	ListTasksErr      error
	GetTaskErr        error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	ToggleErr         error
	ShareTaskErr      error
	CreateCategoryErr error

	// Calls records operation names in call order.
	Calls []string
}

// NewFakeService creates a new FakeService with a logged-in session.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:    make(map[int]service.Task),
		shares:   make(map[int][]int),
		nextID:   1,
		loggedIn: true,
		Password: "correct",
	}
}

// SetLoggedIn sets the session state.
func (f *FakeService) SetLoggedIn(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = v
}

// AddTask adds a task and returns its ID.
func (f *FakeService) AddTask(title string, completed bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.tasks[id] = service.Task{ID: id, Title: title, Completed: completed}
	return id
}

// AddCategory adds a category.
func (f *FakeService) AddCategory(id int, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append(f.categories, service.Category{ID: id, Name: name})
}

// AddUser adds a user.
func (f *FakeService) AddUser(id int, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, service.User{ID: id, Username: username})
}

// Task returns a stored task.
func (f *FakeService) Task(id int) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	return t, ok
}

// SharedWith returns the user IDs a task was shared with.
func (f *FakeService) SharedWith(taskID int) []int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]int(nil), f.shares[taskID]...)
}

func (f *FakeService) record(op string) {
	f.Calls = append(f.Calls, op)
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) (service.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login")
	if f.LoginErr != nil {
		return service.Credentials{}, f.LoginErr
	}
	if password != f.Password {
		return service.Credentials{}, service.ErrAuthentication
	}
	f.loggedIn = true
	return service.Credentials{Access: "access-" + username, Refresh: "refresh-" + username}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, username, password, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Register")
	return f.RegisterErr
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Logout")
	f.loggedIn = false
	return nil
}

// Authenticated implements service.Service.
func (f *FakeService) Authenticated() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loggedIn
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, page int) (service.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return service.TaskPage{}, f.ListTasksErr
	}

	ids := make([]int, 0, len(f.tasks))
	for id := range f.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := service.TaskPage{Count: len(ids), Results: []service.Task{}}
	start := (page - 1) * service.PageSize
	if start >= len(ids) {
		return result, nil
	}
	end := start + service.PageSize
	if end > len(ids) {
		end = len(ids)
	}
	for _, id := range ids[start:end] {
		result.Results = append(result.Results, f.tasks[id])
	}
	return result, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTask")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	return t, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask")
	if err := in.Validate(); err != nil {
		return service.Task{}, err
	}
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	id := f.nextID
	f.nextID++
	t := f.taskFromInput(id, in)
	f.tasks[id] = t
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask")
	if err := in.Validate(); err != nil {
		return service.Task{}, err
	}
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	old, ok := f.tasks[id]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	t := f.taskFromInput(id, in)
	t.SharedWith = old.SharedWith
	f.tasks[id] = t
	return t, nil
}

func (f *FakeService) taskFromInput(id int, in service.TaskInput) service.Task {
	t := service.Task{ID: id, Title: in.Title, Description: in.Description, Completed: in.Completed}
	if in.CategoryID != nil {
		for _, c := range f.categories {
			if c.ID == *in.CategoryID {
				cat := c
				t.Category = &cat
			}
		}
	}
	return t
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	if _, ok := f.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

// ToggleTaskComplete implements service.Service.
func (f *FakeService) ToggleTaskComplete(ctx context.Context, id int) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ToggleTaskComplete")
	if f.ToggleErr != nil {
		return service.Task{}, f.ToggleErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	t.Completed = !t.Completed
	f.tasks[id] = t
	return t, nil
}

// ShareTask implements service.Service.
func (f *FakeService) ShareTask(ctx context.Context, taskID, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ShareTask")
	if f.ShareTaskErr != nil {
		return f.ShareTaskErr
	}
	if _, ok := f.tasks[taskID]; !ok {
		return ErrNotFound
	}
	f.shares[taskID] = append(f.shares[taskID], userID)
	return nil
}

// ListCategories implements service.Service.
func (f *FakeService) ListCategories(ctx context.Context) []service.Category {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Category{}, f.categories...)
}

// CreateCategory implements service.Service.
func (f *FakeService) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCategory")
	if f.CreateCategoryErr != nil {
		return service.Category{}, f.CreateCategoryErr
	}
	c := service.Category{ID: len(f.categories) + 1, Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

// ListUsers implements service.Service.
func (f *FakeService) ListUsers(ctx context.Context) []service.User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.User{}, f.users...)
}
