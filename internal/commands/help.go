package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return []string{"-h", "--help"} }
func (c *HelpCmd) Synopsis() string   { return "Show help" }
func (c *HelpCmd) Usage() string      { return "taskchat help" }
func (c *HelpCmd) NeedsAuth() bool    { return false }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage: taskchat <command> [flags] [args]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range DefaultRegistry.All() {
		if cmd.Name() == "help" {
			continue
		}
		fmt.Fprintf(out, "  %-10s %s\n", cmd.Name(), cmd.Synopsis())
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Common flags:")
	fmt.Fprintln(out, "  --config <dir>   config directory (default: XDG config dir)")
	fmt.Fprintln(out, "  --api <url>      API base URL")
	fmt.Fprintln(out, "  --quiet          suppress informational output")
	fmt.Fprintln(out, "  --debug          enable debug logging")
	return exitcode.Success
}
