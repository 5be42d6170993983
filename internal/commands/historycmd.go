package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/history"
	"taskchat/internal/service"
)

func init() {
	Register(&HistoryCmd{})
}

// HistoryCmd lists locally journaled conversations.
type HistoryCmd struct{}

func (c *HistoryCmd) Name() string       { return "history" }
func (c *HistoryCmd) Aliases() []string  { return nil }
func (c *HistoryCmd) Synopsis() string   { return "List journaled conversations" }
func (c *HistoryCmd) Usage() string      { return "taskchat history [common flags]" }
func (c *HistoryCmd) NeedsAuth() bool    { return false }
func (c *HistoryCmd) NeedsService() bool { return false }

func (c *HistoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HistoryCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	hist, err := history.Open(cfg.HistoryPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer hist.Close()

	convs, err := hist.Conversations()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if len(convs) == 0 {
		fmt.Fprintln(out, "no conversations")
		return exitcode.Success
	}

	for _, conv := range convs {
		remote := "-"
		if conv.RemoteID != 0 {
			remote = fmt.Sprintf("%d", conv.RemoteID)
		}
		fmt.Fprintf(out, "%4d  %s  remote=%s  %d turns\n",
			conv.ID, conv.StartedAt.Local().Format("2006-01-02 15:04"), remote, conv.Turns)
	}
	return exitcode.Success
}
