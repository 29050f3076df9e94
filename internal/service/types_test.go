package service

import (
	"errors"
	"testing"
)

func TestTaskPage_PageCount(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
		{30, 3},
	}
	for _, tt := range tests {
		if got := (TaskPage{Count: tt.count}).PageCount(); got != tt.want {
			t.Errorf("PageCount(count=%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestTaskInput_Validate(t *testing.T) {
	if err := (TaskInput{Title: "Buy milk"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := TaskInput{Title: "   ", Description: "no title"}.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err.Error() != "title required" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestInputFromTask(t *testing.T) {
	task := Task{
		ID:          3,
		Title:       "Report",
		Description: "Q3",
		Completed:   true,
		Category:    &Category{ID: 4, Name: "Work"},
		SharedWith:  []User{{ID: 1, Username: "bob"}},
	}

	in := InputFromTask(task)
	if in.Title != "Report" || in.Description != "Q3" || !in.Completed {
		t.Errorf("unexpected input %+v", in)
	}
	if in.CategoryID == nil || *in.CategoryID != 4 {
		t.Errorf("expected category 4, got %v", in.CategoryID)
	}

	if InputFromTask(Task{Title: "x"}).CategoryID != nil {
		t.Error("expected nil category for uncategorised task")
	}
}

func TestValidationError_Multiple(t *testing.T) {
	err := &ValidationError{Fields: []string{"username", "password"}}
	if err.Error() != "required fields missing: username, password" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
