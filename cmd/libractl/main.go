// cmd/libractl/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"libraclient/internal/config"
	"libraclient/internal/gateway"
	"libraclient/internal/session"
	"libraclient/internal/storage"
	"libraclient/internal/telemetry"
)

// app carries the wired client state shared by every subcommand.
type app struct {
	cfg      config.Config
	session  *session.Store
	client   *gateway.Client
	logger   *slog.Logger
	shutdown func(context.Context) error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	a := &app{}
	root := &cobra.Command{
		Use:           "libractl",
		Short:         "Command-line client for the library service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(cmd.Context())
		},
	}

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.dashboardCmd(),
		a.loansCmd(),
		a.reservationsCmd(),
		a.booksCmd(),
		a.membersCmd(),
	)

	return root.ExecuteContext(context.Background())
}

func (a *app) init(ctx context.Context) error {
	a.cfg = config.Load()
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.NewFileStore(a.cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open state directory: %w", err)
	}
	a.session = session.Open(store)
	a.client = gateway.NewClient(a.cfg.APIBaseURL, a.session, gateway.WithLogger(a.logger))

	a.shutdown, err = telemetry.Setup(ctx, "libractl", a.cfg.TraceEndpoint)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	return nil
}

// apiErr clears a stale session when the service rejects our token, so the
// next invocation starts logged out rather than failing the same way again.
func (a *app) apiErr(err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		if lerr := a.session.Logout(); lerr != nil {
			a.logger.Warn("could not clear session", "error", lerr)
		}
		return errors.New("session expired, sign in again with 'libractl login'")
	}
	return err
}

// currentUser fails fast for commands that need a signed-in member.
func (a *app) currentUser() (*session.User, error) {
	u, ok := a.session.Current()
	if !ok {
		return nil, errors.New("not signed in, run 'libractl login' first")
	}
	return u, nil
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
