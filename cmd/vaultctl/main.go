package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Mindburn-Labs/vaultsdk/pkg/config"
	"github.com/Mindburn-Labs/vaultsdk/pkg/flagutil"
	"github.com/Mindburn-Labs/vaultsdk/pkg/renderer"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// stdin is read by interactive prompts. Tests replace it.
var stdin io.Reader = os.Stdin

// Run is the entrypoint for testing
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "render":
		return runRenderCmd(args[2:], stdout, stderr)
	case "deploy":
		return runDeployCmd(args[2:], stdout, stderr)
	case "gitsource":
		return runGitSourceCmd(args[2:], stdout, stderr)
	case "simulate":
		return runSimulateCmd(args[2:], stdout, stderr)
	case "spec":
		return runSpecCmd(args[2:], stdout, stderr)
	case "manifest":
		return runManifestCmd(args[2:], stdout, stderr)
	case "version":
		return runVersionCmd(stdout)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage: vaultctl <command> [flags]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  render     Render a contract template and its features into one file")
	_, _ = fmt.Fprintln(w, "  deploy     Validate or import a manifest with CLU")
	_, _ = fmt.Fprintln(w, "  gitsource  Find a historic source file by content hash")
	_, _ = fmt.Fprintln(w, "  simulate   Run a workflow definition in the simulator")
	_, _ = fmt.Fprintln(w, "  spec       Export the contracts API specification")
	_, _ = fmt.Fprintln(w, "  manifest   List, filter and fingerprint manifest resources")
	_, _ = fmt.Fprintln(w, "  version    Print tool and API versions")
}

func runVersionCmd(stdout io.Writer) int {
	_, _ = fmt.Fprintf(stdout, "renderer %s\n", renderer.Version)
	_, _ = fmt.Fprintf(stdout, "contracts API %s\n", vaultapi.Latest(vaultapi.KindContract))
	_, _ = fmt.Fprintf(stdout, "supervisor API %s\n", vaultapi.Latest(vaultapi.KindSupervisor))
	return 0
}

// newFlagSet returns a flag set writing to stderr with the shared
// --log_level flag, defaulting to LOGLEVEL.
func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *flagutil.LogLevel) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	level := flagutil.NewLogLevel(fs, "log_level", config.Load().LogLevel)
	return fs, level
}

// parseFlags parses args and reports the exit code to use when parsing
// did not succeed.
func parseFlags(fs *flag.FlagSet, args []string, opts flagutil.Options, stderr io.Writer) ([]string, int, bool) {
	rest, err := flagutil.Parse(fs, args, opts)
	if errors.Is(err, flag.ErrHelp) {
		return nil, 0, false
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, 2, false
	}
	return rest, 0, true
}

func setupLogging(stderr io.Writer, level *flagutil.LogLevel) {
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level.Level()})
	slog.SetDefault(slog.New(handler))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// confirm asks a yes/no question on stdout; only y or yes accepts.
func confirm(stdout io.Writer, prompt string) bool {
	_, _ = fmt.Fprint(stdout, prompt)
	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
