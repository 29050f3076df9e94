package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
)

func init() {
	Register(&ShareCmd{})
}

// ShareCmd implements the share command.
type ShareCmd struct{}

func (c *ShareCmd) Name() string      { return "share" }
func (c *ShareCmd) Aliases() []string { return nil }
func (c *ShareCmd) Synopsis() string  { return "Share a task with a user" }
func (c *ShareCmd) Usage() string     { return "tasker share [common flags] <task-id> <user-id>" }
func (c *ShareCmd) NeedsAuth() bool   { return true }

func (c *ShareCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShareCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: task id and user id required")
		return exitcode.UserError
	}

	taskID, err := ParseID("task", args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	userID, err := ParseID("user", args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.ShareTask(ctx, taskID, userID); err != nil {
		return failTask(errOut, taskID, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
