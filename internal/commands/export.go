package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/export"
	"taskchat/internal/history"
	"taskchat/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd exports a journaled conversation.
type ExportCmd struct {
	format  string
	outPath string
}

// SetFormat sets the export format (for testing).
func (c *ExportCmd) SetFormat(f string) { c.format = f }

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return nil }
func (c *ExportCmd) Synopsis() string   { return "Export a journaled conversation" }
func (c *ExportCmd) Usage() string      { return "taskchat export [--format json|md|yaml] [--out <file>] <conversation>" }
func (c *ExportCmd) NeedsAuth() bool    { return false }
func (c *ExportCmd) NeedsService() bool { return false }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "json", "")
	fs.StringVar(&c.format, "f", "json", "")
	fs.StringVar(&c.outPath, "out", "", "")
	fs.StringVar(&c.outPath, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: conversation id required (see: taskchat history)")
		return exitcode.UserError
	}
	localID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid conversation id: %s\n", args[0])
		return exitcode.UserError
	}

	exporter, err := export.NewExporter(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	hist, err := history.Open(cfg.HistoryPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer hist.Close()

	conv, err := hist.Conversation(localID)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	msgs, err := hist.Messages(localID)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	dst := out
	if c.outPath != "" {
		f, err := os.Create(c.outPath)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		defer f.Close()
		dst = f
	}

	t := export.Transcript{
		ConversationID: conv.ID,
		RemoteID:       conv.RemoteID,
		StartedAt:      conv.StartedAt,
		Messages:       msgs,
	}
	if err := exporter.Export(t, dst); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.outPath != "" && !cfg.Quiet {
		fmt.Fprintf(out, "exported conversation %d to %s\n", conv.ID, c.outPath)
	}
	return exitcode.Success
}
