// Package kittens hands work to the kitten multi-tool executable.
//
// Every method builds the kitten argument vector and replaces the current
// process with it, so on success none of them return.
package kittens

import (
	"github.com/quocvuong92/kitty-launcher/internal/constants"
	"github.com/quocvuong92/kitty-launcher/internal/delegate"
	"github.com/quocvuong92/kitty-launcher/internal/dispatch"
	"github.com/quocvuong92/kitty-launcher/internal/display"
)

// Hidden kitten sub-commands used for delegation
const (
	HoldTillEnter = "__hold_till_enter__"
	Complete      = "__complete__"
	ListFonts     = "__list_fonts__"
)

// Catalog lists the kittens that can be run by name
var Catalog = []string{
	"ask",
	"broadcast",
	"choose-fonts",
	"clipboard",
	"diff",
	"hints",
	"hyperlinked_grep",
	"icat",
	"notify",
	"panel",
	"query_terminal",
	"remote_file",
	"resize_window",
	"show_key",
	"ssh",
	"themes",
	"transfer",
	"unicode_input",
}

// completionShells are the first arguments +complete accepts
var completionShells = map[string]bool{
	"setup": true,
	"zsh":   true,
	"fish2": true,
	"bash":  true,
}

// Runner delegates to the kitten executable at Exe.
type Runner struct {
	Exe       string
	Delegator delegate.Delegator
}

// NewRunner returns a Runner for the kitten executable at exe.
func NewRunner(exe string, d delegate.Delegator) *Runner {
	if exe == "" {
		exe = constants.KittenName
	}
	return &Runner{Exe: exe, Delegator: d}
}

func (r *Runner) exec(sub string, args ...string) error {
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, constants.KittenName, sub)
	argv = append(argv, args...)
	return r.Delegator.Exec(r.Exe, argv)
}

// Run runs the kitten called name with args as its arguments.
func (r *Runner) Run(name string, args []string) error {
	return r.exec(name, args...)
}

// Kitten handles a "kitten <name> args..." vector. Without a name the
// catalog is listed and the invocation fails.
func (r *Runner) Kitten(args []string) error {
	if len(args) < 2 {
		if err := display.ShowKittens(Catalog); err != nil {
			return err
		}
		return dispatch.Exit(1)
	}
	return r.Run(args[1], args[2:])
}

// Hold runs args[1:] and keeps the window open until Enter is pressed.
func (r *Runner) Hold(args []string) error {
	return r.exec(HoldTillEnter, tail(args)...)
}

// ListFonts lists the fonts available to the terminal.
func (r *Runner) ListFonts(args []string) error {
	return r.exec(ListFonts, tail(args)...)
}

// Complete forwards shell completion requests. Only the shells understood
// by older shell integration scripts are accepted, anything else exits 1
// without a message.
func (r *Runner) Complete(args []string) error {
	if len(args) < 2 || !completionShells[args[1]] {
		return dispatch.Exit(1)
	}
	rest := make([]string, 0, len(args)+1)
	switch {
	case args[1] == "fish2":
		rest = append(rest, "fish", "_legacy_completion=fish2")
		rest = append(rest, args[1:]...)
	case len(args) >= 3 && args[1] == "setup" && args[2] == "fish2":
		rest = append(rest, "setup", "fish")
		rest = append(rest, args[3:]...)
	default:
		rest = append(rest, args[1:]...)
	}
	return r.exec(Complete, rest...)
}

func tail(args []string) []string {
	if len(args) < 2 {
		return nil
	}
	return args[1:]
}
