// Package registry holds the command tables consulted by the dispatcher.
//
// A Table is built once through a Builder and is read-only afterwards, so it
// can be shared by every dispatch call without locking. Iteration order is
// registration order.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Handler runs a command. args[0] is the command name as typed; the handler
// owns the interpretation of the remainder.
type Handler func(args []string) error

var (
	ErrDuplicate = errors.New("command registered twice")
	ErrInvalid   = errors.New("invalid command registration")
)

// Table is an immutable, ordered mapping from command name to Handler.
type Table struct {
	names    []string
	handlers map[string]Handler
}

// Lookup returns the handler registered under name.
func (t *Table) Lookup(name string) (Handler, bool) {
	if t == nil {
		return nil, false
	}
	h, ok := t.handlers[name]
	return h, ok
}

// Names returns the registered names in registration order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of registered commands.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Builder collects registrations. The first bad registration is remembered
// and reported by Build.
type Builder struct {
	names    []string
	handlers map[string]Handler
	err      error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{handlers: make(map[string]Handler)}
}

// Add registers handler under name.
func (b *Builder) Add(name string, handler Handler) *Builder {
	if b.err != nil {
		return b
	}
	switch {
	case name == "":
		b.err = fmt.Errorf("%w: empty command name", ErrInvalid)
	case handler == nil:
		b.err = fmt.Errorf("%w: nil handler for %q", ErrInvalid, name)
	default:
		if _, ok := b.handlers[name]; ok {
			b.err = fmt.Errorf("%w: %q", ErrDuplicate, name)
			return b
		}
		b.names = append(b.names, name)
		b.handlers[name] = handler
	}
	return b
}

// Build returns the finished table. The builder must not be used afterwards.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	t := &Table{
		names:    b.names,
		handlers: b.handlers,
	}
	b.names, b.handlers = nil, nil
	return t, nil
}

// MustBuild is Build for tables assembled at startup, where a bad
// registration is a programming error.
func (b *Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Derive starts a builder with every entry of top whose name does not begin
// with one of the reserved characters. Namespace-only commands are added to
// the returned builder by the caller.
func Derive(top *Table, reserved string) *Builder {
	b := NewBuilder()
	for _, name := range top.Names() {
		if strings.ContainsRune(reserved, rune(name[0])) {
			continue
		}
		h, _ := top.Lookup(name)
		b.Add(name, h)
	}
	return b
}
