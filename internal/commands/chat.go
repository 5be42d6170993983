package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskchat/internal/apierr"
	"taskchat/internal/chat"
	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/history"
	"taskchat/internal/output"
	"taskchat/internal/service"
	"taskchat/internal/tasksync"
)

func init() {
	Register(&ChatCmd{})
}

// ChatCmd runs the interactive assistant REPL. After every assistant
// reply the task collection is refreshed, since the assistant may have
// mutated tasks while interpreting the message.
type ChatCmd struct {
	resume int64
	in     io.Reader
}

// SetInput overrides stdin (for testing).
func (c *ChatCmd) SetInput(r io.Reader) { c.in = r }

// SetResume pre-binds the session to a conversation (for testing).
func (c *ChatCmd) SetResume(id int64) { c.resume = id }

func (c *ChatCmd) Name() string       { return "chat" }
func (c *ChatCmd) Aliases() []string  { return nil }
func (c *ChatCmd) Synopsis() string   { return "Talk to the task assistant" }
func (c *ChatCmd) Usage() string      { return "taskchat chat [--resume <conversation-id>]" }
func (c *ChatCmd) NeedsAuth() bool    { return true }
func (c *ChatCmd) NeedsService() bool { return true }

func (c *ChatCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.resume, "resume", 0, "")
}

func (c *ChatCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	sess := chat.NewSession(svc)
	if c.resume > 0 {
		sess.Resume(c.resume)
	}

	syncr := tasksync.New(svc)
	if err := syncr.Refresh(ctx); err != nil {
		// The conversation can still proceed; the task view catches up
		// on the next successful refresh.
		fmt.Fprintf(errOut, "warning: could not load tasks: %v\n", err)
	}

	// Journal turns locally; chat keeps working if the journal doesn't.
	if err := cfg.EnsureDir(); err == nil {
		if hist, err := history.Open(cfg.HistoryPath()); err == nil {
			defer hist.Close()
			sess.SetRecorder(history.NewRecorder(hist))
		} else if !cfg.Quiet {
			fmt.Fprintf(errOut, "warning: chat history disabled: %v\n", err)
		}
	}

	// The assistant may create, update, or delete tasks as a side
	// effect of a turn; refresh so the local collection reflects it.
	sess.OnTurnCompleted(func() {
		if err := syncr.Refresh(ctx); err == nil && !cfg.Quiet {
			fmt.Fprintf(out, "(%d tasks)\n", syncr.Len())
		}
	})

	if !cfg.Quiet {
		fmt.Fprintln(out, "chat with the task assistant (/tasks to list, /quit to exit)")
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return exitcode.Success
		case "/tasks":
			output.FormatTaskList(out, syncr.Tasks(), false)
			continue
		}

		reply, err := sess.SendTurn(ctx, line)
		if err != nil {
			if apierr.Is(err, apierr.CodeSessionExpired) {
				fmt.Fprintf(errOut, "error: %s\n", apierr.SessionExpiredMessage)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		output.FormatMessage(out, reply)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
