// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, missing fields, not found).
	UserError = 1

	// AuthError indicates rejected credentials, a missing or expired session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)
