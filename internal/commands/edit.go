package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// The backend replaces every writable field, so the current task is fetched
// first and only the flagged fields are changed.
type EditCmd struct {
	title       optString
	description optString
	category    categoryFlag
	done        bool
	undone      bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "tasker edit [common flags] [--title <text>] [--description <text>] [--category <id>|none] [--done|--undone] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optString{}
	c.description = optString{}
	c.category = categoryFlag{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.category, "category", "")
	fs.Var(&c.category, "c", "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.undone, "undone", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.done && c.undone {
		fmt.Fprintln(errOut, "error: cannot use both --done and --undone")
		return exitcode.UserError
	}
	if !c.title.set && !c.description.set && !c.category.set && !c.done && !c.undone {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	current, err := svc.GetTask(ctx, id)
	if err != nil {
		return failTask(errOut, id, err)
	}

	in := service.InputFromTask(current)
	if c.title.set {
		in.Title = c.title.value
	}
	if c.description.set {
		in.Description = c.description.value
	}
	if c.category.set {
		in.CategoryID = c.category.id
	}
	switch {
	case c.done:
		in.Completed = true
	case c.undone:
		in.Completed = false
	}

	if err := in.Validate(); err != nil {
		return fail(errOut, err)
	}

	task, err := svc.UpdateTask(ctx, id, in)
	if err != nil {
		return failTask(errOut, id, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
