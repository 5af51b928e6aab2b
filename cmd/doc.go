// Package cmd implements the kitty command line entry point.
//
// # Architecture
//
//   - root.go: App struct, command table wiring, Execute and Run
//   - entry_points.go: handlers for icat, list-fonts and the "+name" commands
//   - launch.go: the default entry point (cobra command) and LaunchOptions
//
// # Dispatch
//
// The first argument selects a top-level command (icat, list-fonts, +).
// "+name" and "+ name" select a namespaced command: hold, complete, runpy,
// launch, open, kitten, edit-config, shebang and edit, plus the top-level
// commands not starting with + or @. Anything else starts the terminal.
//
// Most handlers end by replacing the process with another executable (the
// kitten multi-tool, the terminal engine, an editor or a script interpreter)
// and so never return on success.
//
// # Usage
//
//	func main() {
//	    cmd.Execute()
//	}
package cmd
