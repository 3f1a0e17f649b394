package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/spf13/cobra"
)

// Exit codes of the shop command.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitAuth    = 3 // login required or expired
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageErr(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageErr(err)
		}
		return nil
	}
}

// ExitCode extracts the exit code from an error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrAuthExpired):
		return ExitAuth
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Execute runs the command tree and reports a failure on stderr.
func Execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	// cobra skips post-run hooks of a failed command.
	if cmd.PersistentPostRun != nil {
		cmd.PersistentPostRun(cmd, nil)
	}

	code := ExitCode(err)
	fmt.Fprintf(stderr, "Error: %s\n", message(err))
	switch code {
	case ExitAuth:
		fmt.Fprintln(stderr, "Run 'shop login' to sign in.")
	case ExitUsage:
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return code
}

// message returns the user facing part of err. Sentinel errors of the
// domain replace the wrapped operation chain.
func message(err error) string {
	sentinels := []error{
		domain.ErrIncompleteSelection,
		domain.ErrNoMatchingSKU,
		domain.ErrInvalidQuantity,
		domain.ErrUnauthenticated,
		domain.ErrAuthExpired,
		domain.ErrAmbiguousToken,
		domain.ErrPasswordMismatch,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}
