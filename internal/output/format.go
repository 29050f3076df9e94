// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasker/internal/service"
)

// FormatTask formats a task line for the task list.
// Format: "{ID:>4}  [x] {TITLE} ({CATEGORY})\n"; the category part is
// omitted for uncategorised tasks.
func FormatTask(w io.Writer, task service.Task) {
	title := normalizeTitle(task.Title)
	if task.Category != nil {
		title += " (" + normalizeName(task.Category.Name) + ")"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", task.ID, checkbox(task.Completed), title)
}

// FormatPageFooter formats the pagination line under a task list.
func FormatPageFooter(w io.Writer, page int, p service.TaskPage) {
	pages := p.PageCount()
	if pages == 0 {
		pages = 1
	}
	noun := "tasks"
	if p.Count == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "page %d of %d (%d %s)\n", page, pages, p.Count, noun)
}

// FormatTaskDetail formats every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	status := "open"
	if task.Completed {
		status = "done"
	}

	category := "-"
	if task.Category != nil {
		category = normalizeName(task.Category.Name)
	}

	shared := "-"
	if len(task.SharedWith) > 0 {
		names := make([]string, len(task.SharedWith))
		for i, u := range task.SharedWith {
			names[i] = u.Username
		}
		shared = strings.Join(names, ", ")
	}

	description := strings.TrimSpace(task.Description)
	if description == "" {
		description = "-"
	}

	fmt.Fprintf(w, "ID:          %d\n", task.ID)
	fmt.Fprintf(w, "Title:       %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "Description: %s\n", description)
	fmt.Fprintf(w, "Status:      %s\n", status)
	fmt.Fprintf(w, "Category:    %s\n", category)
	fmt.Fprintf(w, "Shared with: %s\n", shared)
}

// FormatCategory formats a category line: "{ID:>4}  {NAME}\n".
func FormatCategory(w io.Writer, c service.Category) {
	fmt.Fprintf(w, "%4d  %s\n", c.ID, normalizeName(c.Name))
}

// FormatUser formats a user line: "{ID:>4}  {USERNAME}\n".
func FormatUser(w io.Writer, u service.User) {
	fmt.Fprintf(w, "%4d  %s\n", u.ID, u.Username)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeName normalizes a category name for display.
func normalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}
