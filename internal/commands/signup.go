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
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command: create an account, then
// sign in with the same credentials and persist the session.
type SignupCmd struct {
	email    string
	password string
}

// SetCredentials sets the email and password (for testing).
func (c *SignupCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *SignupCmd) Name() string       { return "signup" }
func (c *SignupCmd) Aliases() []string  { return nil }
func (c *SignupCmd) Synopsis() string   { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string      { return "taskchat signup --email <email> --password <password>" }
func (c *SignupCmd) NeedsAuth() bool    { return false }
func (c *SignupCmd) NeedsService() bool { return true }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: --email and --password are required")
		return exitcode.UserError
	}

	if _, err := svc.SignUp(ctx, c.email, c.password); err != nil {
		return reportError(errOut, err)
	}

	// Auto sign-in with the same credentials.
	sess, err := svc.SignIn(ctx, c.email, c.password)
	if err != nil {
		return reportError(errOut, err)
	}

	if err := persistSession(cfg, sess); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "signed up and in as %s\n", sess.User.Email)
	}
	return exitcode.Success
}
