package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/config"
	"taskchat/internal/credential"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the stored identity without touching the network.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return nil }
func (c *WhoamiCmd) Synopsis() string   { return "Show the signed-in identity" }
func (c *WhoamiCmd) Usage() string      { return "taskchat whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool    { return false }
func (c *WhoamiCmd) NeedsService() bool { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	store, err := credential.NewStore(cfg.SessionPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	cred, ok := store.Get()
	if !ok {
		fmt.Fprintln(out, "not signed in")
		return exitcode.Success
	}

	fmt.Fprintf(out, "%s (%s)\n", cred.UserEmail, cred.UserID)
	return exitcode.Success
}
