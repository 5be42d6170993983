// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskchat/internal/apierr"
	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like help, version, signup, login, logout return false.
	NeedsAuth() bool

	// NeedsService returns true if the command talks to the backend.
	// signup and login need a service without a stored session.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, base URL).
	// svc is nil if NeedsService() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// reportError prints err and maps it to an exit code. Validation,
// rejection, and not-found are user errors; an expired session is an
// auth error; everything else is a backend error.
func reportError(errOut io.Writer, err error) int {
	var e *apierr.Error
	if errors.As(err, &e) {
		switch e.Code {
		case apierr.CodeValidation, apierr.CodeRejected, apierr.CodeNotFound:
			fmt.Fprintf(errOut, "error: %s\n", e.Message)
			return exitcode.UserError
		case apierr.CodeSessionExpired:
			fmt.Fprintf(errOut, "error: %s\n", e.Message)
			return exitcode.AuthError
		default:
			fmt.Fprintf(errOut, "error: %s\n", e.Message)
			return exitcode.BackendError
		}
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
