package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/oauth2"

	"taskchat/internal/config"
	"taskchat/internal/credential"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the email and password (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return []string{"signin"} }
func (c *LoginCmd) Synopsis() string   { return "Sign in and store the session" }
func (c *LoginCmd) Usage() string      { return "taskchat login --email <email> --password <password>" }
func (c *LoginCmd) NeedsAuth() bool    { return false }
func (c *LoginCmd) NeedsService() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: --email and --password are required")
		return exitcode.UserError
	}

	sess, err := svc.SignIn(ctx, c.email, c.password)
	if err != nil {
		return reportError(errOut, err)
	}

	if err := persistSession(cfg, sess); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "signed in as %s\n", sess.User.Email)
	}
	return exitcode.Success
}

// persistSession writes the sign-in result to the session file.
func persistSession(cfg *config.Config, sess service.Session) error {
	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	store, err := credential.NewStore(cfg.SessionPath())
	if err != nil {
		// An unreadable old session file should not block a fresh
		// sign-in; start over.
		_ = removeSessionFile(cfg)
		store, err = credential.NewStore(cfg.SessionPath())
		if err != nil {
			return err
		}
	}
	return store.Set(credential.Credential{
		Token: oauth2.Token{
			AccessToken: sess.AccessToken,
			TokenType:   sess.TokenType,
		},
		UserID:    sess.User.ID,
		UserEmail: sess.User.Email,
	})
}
