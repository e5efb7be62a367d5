package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

func main() {
	setMaxProcs(hasVerboseFlag(os.Args[1:]), os.Stderr)

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// setMaxProcs configures GOMAXPROCS from the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// hasVerboseFlag scans raw arguments before flag parsing, so GOMAXPROCS is
// set before any work starts.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	switch arg {
	case "build", "images", "doctor", "version", "help":
		return true
	}
	return false
}

// runMain dispatches a command and returns the process exit code.
// Without a command, or when the first argument is a flag, build runs.
func runMain(ctx context.Context, args []string, env *Environment) int {
	var cmd string
	var rest []string
	switch {
	case len(args) < 2:
		cmd = "build"
	case strings.HasPrefix(args[1], "-"):
		cmd, rest = "build", args[1:]
	default:
		cmd, rest = args[1], args[2:]
	}

	if !isCommand(cmd) {
		printUsage(env.Stderr)
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "images":
		err = runImages(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "go-md2latex %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	}

	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
