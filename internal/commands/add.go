package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	category    categoryFlag
	done        bool
	share       int
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasker add [common flags] [--description <text>] [--category <id>] [--done] [--share <user-id>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.category = categoryFlag{}
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.Var(&c.category, "category", "")
	fs.Var(&c.category, "c", "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.IntVar(&c.share, "share", 0, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.share < 0 {
		fmt.Fprintf(errOut, "error: invalid user id: %d\n", c.share)
		return exitcode.UserError
	}

	in := service.TaskInput{
		Title:       strings.Join(args, " "),
		Description: c.description,
		Completed:   c.done,
		CategoryID:  c.category.id,
	}
	if err := in.Validate(); err != nil {
		return fail(errOut, err)
	}

	task, err := svc.CreateTask(ctx, in)
	if err != nil {
		return fail(errOut, err)
	}

	// Sharing needs the new task's ID, so it only follows a successful create.
	if c.share > 0 {
		if err := svc.ShareTask(ctx, task.ID, c.share); err != nil {
			fmt.Fprintf(errOut, "error: task %d created but not shared\n", task.ID)
			return failTask(errOut, task.ID, err)
		}
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
