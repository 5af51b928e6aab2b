// Package dispatch routes a process argument vector to its entry point.
//
// The first argument selects a top-level command. Arguments of the form
// "+name" (or "+ name") select a namespaced command. Anything else falls
// through to the default application entry point.
package dispatch

import (
	"strings"

	"github.com/quocvuong92/kitty-launcher/internal/constants"
	"github.com/quocvuong92/kitty-launcher/internal/logging"
	"github.com/quocvuong92/kitty-launcher/internal/registry"
)

// Dispatcher routes argument vectors. It holds no mutable state.
type Dispatcher struct {
	top        *registry.Table
	namespaced *registry.Table
	fallback   func(argv []string) error
	log        *logging.FieldLogger
}

// New creates a Dispatcher. fallback receives the full argument vector when no
// command matches.
func New(top, namespaced *registry.Table, fallback func(argv []string) error, log *logging.FieldLogger) *Dispatcher {
	if log == nil {
		log = logging.DefaultLogger.WithFields(nil)
	}
	return &Dispatcher{
		top:        top,
		namespaced: namespaced,
		fallback:   fallback,
		log:        log,
	}
}

// Dispatch routes argv, where argv[0] is the program name.
func (d *Dispatcher) Dispatch(argv []string) error {
	first := ""
	if len(argv) >= 2 {
		first = argv[1]
	}

	if h, ok := d.top.Lookup(first); ok {
		d.log.With(logging.Fields{"command": first}).Debug("dispatching", logging.Fields{"table": "top"})
		return h(clone(argv[1:]))
	}

	if strings.HasPrefix(first, constants.NamespacePrefix) {
		args := make([]string, 0, len(argv))
		args = append(args, constants.NamespacePrefix, first[len(constants.NamespacePrefix):])
		args = append(args, argv[2:]...)
		return d.DispatchNamespaced(args)
	}

	d.log.Debug("falling through to default entry point", logging.Fields{"argc": len(argv)})
	return d.fallback(clone(argv))
}

// DispatchNamespaced runs args[1] from the namespaced table with args[1:].
// args[0] is the namespace token.
func (d *Dispatcher) DispatchNamespaced(args []string) error {
	if len(args) < 2 {
		return ErrIncomplete
	}

	name := args[1]
	h, ok := d.namespaced.Lookup(name)
	if !ok {
		return &UnknownEntryPointError{Name: name, Choices: d.namespaced.Names()}
	}

	d.log.With(logging.Fields{"command": name}).Debug("dispatching", logging.Fields{"table": "namespaced"})
	return h(clone(args[1:]))
}

func clone(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	return out
}
