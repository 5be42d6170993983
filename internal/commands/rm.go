package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/apierr"
	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
	"taskchat/internal/tasksync"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "taskchat rm <number|task-id>" }
func (c *RmCmd) NeedsAuth() bool    { return true }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number or id required")
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

	if err := svc.DeleteTask(ctx, id); err != nil {
		// Already gone is benign: the collection treats a repeated
		// delete as a no-op.
		if !apierr.Is(err, apierr.CodeNotFound) {
			return reportError(errOut, err)
		}
	}
	syncr.ApplyRemoved(id)

	if !cfg.Quiet {
		fmt.Fprintf(out, "deleted %s\n", id)
	}
	return exitcode.Success
}
