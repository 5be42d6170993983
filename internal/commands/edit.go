package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
	"taskchat/internal/tasksync"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements partial task updates.
type EditCmd struct {
	title       string
	description string
	titleSet    bool
	descSet     bool
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(t string) { c.title = t; c.titleSet = true }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(d string) { c.description = d; c.descSet = true }

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Update a task's title or description" }
func (c *EditCmd) Usage() string      { return "taskchat edit [--title <text>] [--desc <text>] <number|task-id>" }
func (c *EditCmd) NeedsAuth() bool    { return true }
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Func("title", "", func(v string) error {
		c.title = v
		c.titleSet = true
		return nil
	})
	fs.Func("desc", "", func(v string) error {
		c.description = v
		c.descSet = true
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number or id required")
		return exitcode.UserError
	}
	if !c.titleSet && !c.descSet {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --desc)")
		return exitcode.UserError
	}

	syncr := tasksync.New(svc)
	if err := syncr.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	id, ok := resolveTask(syncr, args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: task not found: %s\n", args[0])
		return exitcode.UserError
	}

	var patch service.TaskPatch
	if c.titleSet {
		patch.Title = &c.title
	}
	if c.descSet {
		patch.Description = &c.description
	}

	updated, err := svc.UpdateTask(ctx, id, patch)
	if err != nil {
		return reportError(errOut, err)
	}
	syncr.ApplyUpdated(updated)

	if !cfg.Quiet {
		fmt.Fprintf(out, "updated %s\n", updated.ID)
	}
	return exitcode.Success
}
