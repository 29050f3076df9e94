package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrTaskIDRequired indicates no task ID was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseID parses a positive numeric ID.
// what names the ID in error messages ("task", "user").
func ParseID(what, s string) (int, error) {
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid %s id: %s", what, s)
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id: %s", what, s)
	}
	return id, nil
}

// ParseTaskID parses the task ID from the first positional argument.
// Extra arguments are rejected.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	return ParseID("task", args[0])
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
