package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/googleapi"

	"tasker/internal/exitcode"
	"tasker/internal/service"
)

// fail reports err on errOut and returns the exit code for its class.
func fail(errOut io.Writer, err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrSessionExpired):
		fmt.Fprintln(errOut, "error: session expired (run: tasker login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrAuthentication):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// failTask is fail with a friendlier message for unknown task IDs.
func failTask(errOut io.Writer, id int, err error) int {
	if isNotFound(err) {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}
	return fail(errOut, err)
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
