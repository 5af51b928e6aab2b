package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/quocvuong92/kitty-launcher/internal/logging"
	"github.com/quocvuong92/kitty-launcher/internal/registry"
)

type call struct {
	handler string
	args    []string
}

type harness struct {
	calls      []call
	top        *registry.Table
	namespaced *registry.Table
	d          *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{}
	record := func(name string) registry.Handler {
		return func(args []string) error {
			h.calls = append(h.calls, call{handler: name, args: args})
			return nil
		}
	}

	h.top = registry.NewBuilder().
		Add("icat", record("icat")).
		Add("list-fonts", record("list-fonts")).
		Add("+", func(args []string) error { return h.d.DispatchNamespaced(args) }).
		MustBuild()
	h.namespaced = registry.Derive(h.top, "+@").
		Add("hold", record("hold")).
		Add("runpy", record("runpy")).
		Add("launch", record("launch")).
		Add("kitten", record("kitten")).
		MustBuild()
	h.d = New(h.top, h.namespaced, func(argv []string) error {
		h.calls = append(h.calls, call{handler: "default", args: argv})
		return nil
	}, nil)
	return h
}

func (h *harness) only(t *testing.T) call {
	t.Helper()
	if len(h.calls) != 1 {
		t.Fatalf("handler calls = %+v, want exactly one", h.calls)
	}
	return h.calls[0]
}

func TestDispatch_EveryNamespacedCommand(t *testing.T) {
	for _, name := range newHarness(t).namespaced.Names() {
		for _, form := range []string{"split", "joined"} {
			t.Run(name+"/"+form, func(t *testing.T) {
				h := newHarness(t)
				var argv []string
				if form == "split" {
					argv = []string{"kitty", "+", name, "a", "-b"}
				} else {
					argv = []string{"kitty", "+" + name, "a", "-b"}
				}

				if err := h.d.Dispatch(argv); err != nil {
					t.Fatalf("Dispatch(%q) error = %v", argv, err)
				}
				got := h.only(t)
				if got.handler != name {
					t.Errorf("handler = %q, want %q", got.handler, name)
				}
				if want := []string{name, "a", "-b"}; !reflect.DeepEqual(got.args, want) {
					t.Errorf("args = %q, want %q", got.args, want)
				}
			})
		}
	}
}

func TestDispatch_TopLevel(t *testing.T) {
	h := newHarness(t)

	if err := h.d.Dispatch([]string{"kitty", "icat", "--clear"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	got := h.only(t)
	if got.handler != "icat" || !reflect.DeepEqual(got.args, []string{"icat", "--clear"}) {
		t.Errorf("call = %+v, want icat with [icat --clear]", got)
	}
}

func TestDispatch_FallsThrough(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"no arguments", []string{"kitty"}},
		{"empty argv", []string{}},
		{"program to run", []string{"kitty", "htop"}},
		{"flags", []string{"kitty", "--title", "x"}},
		{"namespaced name without prefix", []string{"kitty", "launch", "x.lua"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.d.Dispatch(tt.argv); err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			got := h.only(t)
			if got.handler != "default" {
				t.Fatalf("handler = %q, want default", got.handler)
			}
			if len(got.args) != len(tt.argv) {
				t.Errorf("args = %q, want %q", got.args, tt.argv)
			}
		})
	}
}

func TestDispatch_HandlerGetsFreshSlice(t *testing.T) {
	h := newHarness(t)
	argv := []string{"kitty", "+hold", "x"}

	mutate := registry.NewBuilder().Add("hold", func(args []string) error {
		args[0] = "changed"
		return nil
	}).MustBuild()
	d := New(h.top, mutate, nil, nil)
	h.d = d

	if err := d.Dispatch(argv); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if argv[1] != "+hold" {
		t.Errorf("argv was modified by the handler: %q", argv)
	}
}

func TestDispatchNamespaced_Incomplete(t *testing.T) {
	h := newHarness(t)

	for _, argv := range [][]string{{"kitty", "+"}} {
		err := h.d.Dispatch(argv)
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("Dispatch(%q) error = %v, want *ExitError", argv, err)
		}
		if exitErr.Code == 0 {
			t.Error("incomplete command line must exit non-zero")
		}
		if !strings.Contains(exitErr.Message, "incomplete") {
			t.Errorf("Message = %q, want it to mention incomplete", exitErr.Message)
		}
	}

	if err := h.d.DispatchNamespaced([]string{"+"}); !errors.Is(err, ErrIncomplete) {
		t.Errorf("DispatchNamespaced([+]) error = %v, want ErrIncomplete", err)
	}
	if len(h.calls) != 0 {
		t.Errorf("no handler should run, got %+v", h.calls)
	}
}

func TestDispatchNamespaced_Unknown(t *testing.T) {
	h := newHarness(t)

	err := h.d.DispatchNamespaced([]string{"+", "not-a-real-command"})
	var unknown *UnknownEntryPointError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownEntryPointError", err)
	}
	if unknown.Name != "not-a-real-command" {
		t.Errorf("Name = %q, want %q", unknown.Name, "not-a-real-command")
	}

	names := h.namespaced.Names()
	want := "not-a-real-command is not a known entry point. Choices are: " + strings.Join(names, ", ")
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	for _, name := range names {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Error() does not mention %q", name)
		}
	}
	if ExitCode(err) == 0 {
		t.Error("unknown entry point must exit non-zero")
	}
}

func TestDispatch_ReservedNamesNotNamespaced(t *testing.T) {
	h := newHarness(t)

	err := h.d.Dispatch([]string{"kitty", "++"})
	var unknown *UnknownEntryPointError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownEntryPointError", err)
	}
	if unknown.Name != "+" {
		t.Errorf("Name = %q, want %q", unknown.Name, "+")
	}
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	top := registry.NewBuilder().Add("icat", func([]string) error { return boom }).MustBuild()
	d := New(top, registry.NewBuilder().MustBuild(), nil, nil)

	if err := d.Dispatch([]string{"kitty", "icat"}); !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want %v", err, boom)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{Exit(0), 0},
		{Exit(3), 3},
		{Usage("bad"), 1},
		{fmt.Errorf("wrapped: %w", Exit(2)), 2},
		{errors.New("plain"), 1},
		{&UnknownEntryPointError{Name: "x"}, 1},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSilent(t *testing.T) {
	if !Silent(Exit(1)) {
		t.Error("Exit(1) should be silent")
	}
	if Silent(Usage("Usage: kitty +runpy")) {
		t.Error("usage errors carry a message")
	}
	if Silent(errors.New("x")) {
		t.Error("plain errors are not silent")
	}
}

func TestDispatch_LogsCommand(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf})
	h.d = New(h.top, h.namespaced, nil, logger.WithFields(logging.Fields{"invocation": "abc"}))

	if err := h.d.Dispatch([]string{"kitty", "+hold", "ls"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	for _, want := range []string{"command=hold", "invocation=abc", "table=namespaced"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log %q does not contain %q", buf.String(), want)
		}
	}
}
