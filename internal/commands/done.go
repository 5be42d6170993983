package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
	"taskchat/internal/tasksync"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd toggles a task's completion. The local collection flips
// first; the confirming update follows, and on failure the prior
// value is restored.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string      { return "taskchat done <number|task-id>" }
func (c *DoneCmd) NeedsAuth() bool    { return true }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	updated, err := syncr.ToggleCompleted(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		state := "open"
		if updated.Completed {
			state = "done"
		}
		fmt.Fprintf(out, "%s: %s\n", state, updated.Title)
	}
	return exitcode.Success
}

// resolveTask resolves a positional reference against the collection:
// a small integer is a 1-based position in the listed order, anything
// else is treated as a task id.
func resolveTask(syncr *tasksync.Synchronizer, ref string) (string, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		tasks := syncr.Tasks()
		if n < 1 || n > len(tasks) {
			return "", false
		}
		return tasks[n-1].ID, true
	}
	_, ok := syncr.Get(ref)
	return ref, ok
}
