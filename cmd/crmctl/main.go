// crmctl is a command line client for crmgate. It keeps its session in a
// JSON file using the same "auth-storage" blob the dashboard persists.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
	"github.com/spf13/pflag"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command gets.
type env struct {
	client *crmsdk.SDKClient
	store  *crmsdk.Store
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"login":  {"authenticate and store the session", runLogin},
	"logout": {"revoke and forget the stored session", runLogout},
	"whoami": {"show the current user, role and permissions", runWhoami},
	"roles":  {"list the roles of your business", runRoles},
	"toggle": {"flip one permission of a custom role", runToggle},
	"can":    {"ask the server whether you may act on a resource", runCan},
}

var commandOrder = []string{"login", "logout", "whoami", "roles", "toggle", "can"}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		server      string
		sessionFile string
		verbose     bool
	)

	flagSet := pflag.NewFlagSet("crmctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&server, "server", envOr("CRMCTL_SERVER", "http://localhost:8080"), "crmgate base URL")
	flagSet.StringVar(&sessionFile, "session", envOr("CRMCTL_SESSION", defaultSessionFile()), "file holding the stored session")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Bool("version", false, "print the version")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if v, _ := flagSet.GetBool("version"); v {
		fmt.Fprintln(stdout, "crmctl", version)
		return nil
	}
	rest := flagSet.Args()
	if help, _ := flagSet.GetBool("help"); help || len(rest) == 0 {
		printHelp(stderr, flagSet)
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, see crmctl --help", rest[0])
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := slogx.New(slogx.Config{
		Service: "crmctl",
		Version: version,
		Level:   level,
		Format:  "text",
		Output:  stderr,
	})

	client := crmsdk.NewSDKClient(server)
	e := &env{
		client: client,
		store:  crmsdk.NewStore(client, crmsdk.NewFileStorage(sessionFile)),
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
	}
	logger.Debug("running command", "command", rest[0], "server", server, "session", sessionFile)
	return cmd.run(ctx, e, rest[1:])
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "crmctl talks to a crmgate server.\n\nUsage:\n  crmctl [flags] <command> [args]\n\nCommands:\n")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nFlags:\n")
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "crmctl-session.json"
	}
	return filepath.Join(dir, "crmgate", "session.json")
}

// exitError ends the process with code without printing anything more.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }
