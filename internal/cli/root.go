package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set by main.go
var Version = "dev"

// rootCmd is the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "websql",
	Short: "WebSQL Data Compare desktop shell",
	Long: `websql starts the WebSQL Data Compare desktop application.

Run without arguments to open the window. The subcommands below inspect the
installation and manage updates without starting the GUI.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// commands that keep the process in CLI mode
var known = map[string]bool{
	"version":   true,
	"--version": true,
	"-v":        true,
	"logpath":   true,
	"plugins":   true,
	"update":    true,
	"help":      true,
	"--help":    true,
	"-h":        true,
}

// IsCommand reports whether arg selects CLI mode.
func IsCommand(arg string) bool {
	return known[arg]
}

// Execute runs the CLI application.
// Returns true if CLI mode was activated, false if GUI should run instead.
func Execute(version string) bool {
	Version = version
	rootCmd.Version = version

	if len(os.Args) < 2 || !IsCommand(os.Args[1]) {
		return false
	}

	// Ctrl+C cancels downloads in progress
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
	return true
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
