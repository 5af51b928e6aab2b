// Package display writes user-facing output: errors, the kitten listing and
// the hold-till-enter prompt.
package display

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Output streams, swappable in tests
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
	Stdin  io.Reader = os.Stdin
)

// ShowError prints msg on stderr
func ShowError(msg string) {
	fmt.Fprintln(Stderr, strings.TrimRight(msg, "\n"))
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// KittenListMarkdown is the listing shown when no kitten name is given
func KittenListMarkdown(names []string) string {
	var sb strings.Builder
	sb.WriteString("You must specify the name of a kitten to run\n\nChoose from:\n\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "- `%s`\n", name)
	}
	return sb.String()
}

// ShowKittens lists the available kittens on stdout, rendered as markdown
// when stdout is a terminal.
func ShowKittens(names []string) error {
	if !IsTerminal(Stdout) {
		fmt.Fprintln(Stdout, "You must specify the name of a kitten to run")
		fmt.Fprintln(Stdout, "Choose from:")
		fmt.Fprintln(Stdout)
		for _, name := range names {
			fmt.Fprintln(Stdout, name)
		}
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(KittenListMarkdown(names))
	if err != nil {
		return fmt.Errorf("render kitten list: %w", err)
	}
	_, err = io.WriteString(Stdout, out)
	return err
}

// HoldTillEnter waits for the user to press Enter so a message stays visible
// in a window that would otherwise close. It returns at once when stdin is not
// a terminal.
func HoldTillEnter() {
	if !IsTerminal(Stdin) {
		return
	}
	holdTillEnter(Stdin, Stdout)
}

func holdTillEnter(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "\n\x1b[1;32mPress Enter to exit\x1b[m")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
