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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasker help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasker                                             List tasks (page 1)
  tasker list [common flags] [--page <n>]            List one page of tasks
  tasker show [common flags] <id>
  tasker add [common flags] [--description <text>] [--category <id>] [--done] [--share <user-id>] <title...>
  tasker edit [common flags] [--title <text>] [--description <text>] [--category <id>|none] [--done|--undone] <id>
  tasker done [common flags] <id>                    Toggle completed (alias: toggle)
  tasker rm [common flags] <id>
  tasker share [common flags] <task-id> <user-id>
  tasker categories [common flags]
  tasker addcategory [common flags] <name...>
  tasker users [common flags]
  tasker login [common flags] [--username <name>] [--password <password>]
  tasker logout [common flags]
  tasker register [common flags] --username <name> --password <password> --email <email>
  tasker help
  tasker version

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the API base URL
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
