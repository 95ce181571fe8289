// WebSQL Data Compare desktop shell.
//
// This binary is the native side of the application: it prepares the process
// environment, opens the debug log, builds the window with its plugins
// (updater, process, filesystem, dialog) and runs the event loop until the
// user quits. The outcome of every run is appended to websql-debug.log in the
// home directory.
//
// Build modes:
//   - Default build: GUI + CLI (requires graphics libraries)
//   - CLI-only build: go build -tags cli (no graphics dependencies)

package main

// version is the application version. It must be a semantic version so the
// updater can compare it with release manifests.
const version = "1.0.0"

func main() {
	run()
}
