//go:build cli

package main

import (
	"fmt"
	"os"

	"websql/internal/cli"
)

// run is the CLI-only entry point.
// This build excludes all GUI dependencies (Fyne, OpenGL, etc.) and can run
// on headless systems without graphics hardware.
func run() {
	if !cli.Execute(version) {
		fmt.Fprintf(os.Stderr, "websql %s (CLI-only build)\n", version)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: websql <command> [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  version         Print the version")
		fmt.Fprintln(os.Stderr, "  logpath         Print where the debug log is written")
		fmt.Fprintln(os.Stderr, "  plugins         List the plugins compiled into a build variant")
		fmt.Fprintln(os.Stderr, "  update check    Report whether a newer release is available")
		fmt.Fprintln(os.Stderr, "  update install  Download, verify and install the latest release")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run 'websql <command> --help' for more information.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Note: This is a CLI-only build without GUI support.")
		fmt.Fprintln(os.Stderr, "For GUI version, build without the 'cli' tag.")
		os.Exit(0)
	}
}
