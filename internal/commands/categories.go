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
	Register(&CategoriesCmd{})
	Register(&AddCategoryCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string      { return "categories" }
func (c *CategoriesCmd) Aliases() []string { return nil }
func (c *CategoriesCmd) Synopsis() string  { return "List categories" }
func (c *CategoriesCmd) Usage() string     { return "tasker categories [common flags]" }
func (c *CategoriesCmd) NeedsAuth() bool   { return true }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	categories := svc.ListCategories(ctx)
	if len(categories) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no categories found")
		}
		return exitcode.Success
	}

	for _, cat := range categories {
		output.FormatCategory(out, cat)
	}
	return exitcode.Success
}

// AddCategoryCmd implements the addcategory command.
type AddCategoryCmd struct{}

func (c *AddCategoryCmd) Name() string      { return "addcategory" }
func (c *AddCategoryCmd) Aliases() []string { return []string{"createcategory"} }
func (c *AddCategoryCmd) Synopsis() string  { return "Create a category" }
func (c *AddCategoryCmd) Usage() string     { return "tasker addcategory [common flags] <name...>" }
func (c *AddCategoryCmd) NeedsAuth() bool   { return true }

func (c *AddCategoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCategoryCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: category name required")
		return exitcode.UserError
	}

	cat, err := svc.CreateCategory(ctx, name)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatCategory(out, cat)
	}
	return exitcode.Success
}
