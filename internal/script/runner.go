// Package script runs trusted scripts inside the launcher process.
//
// Scripts are Lua and run with the launcher's privileges and state: there is
// no sandbox. They are only reachable through the explicit +runpy and +launch
// commands. Shebang dispatch, which hands a script to its own interpreter,
// lives here too.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/quocvuong92/kitty-launcher/internal/dispatch"
)

// MainFileName is run when +launch is given a directory
const MainFileName = "__main__.lua"

// MainName is bound to the global __name__ of a launched script
const MainName = "__main__"

// LaunchUsage is printed when +launch is given no script
const LaunchUsage = `usage: kitty +launch script.lua [arguments to be passed to script.lua ...]

script.lua will be run with full access to kitty code. If script.lua is prefixed with a : it will be searched for in PATH. If script.lua is a directory the __main__.lua file inside it is run.`

// ErrScript wraps load and runtime failures of a script
var ErrScript = errors.New("script failed")

// Runner executes Lua scripts in-process.
type Runner struct {
	// Stdout receives print output; defaults to os.Stdout
	Stdout io.Writer
	// Info is published to scripts as the global "kitty" table
	Info map[string]string
	// Expose, when set, can register extra globals before the script runs
	Expose func(l *lua.State)
	// LookPath resolves ":name" scripts; defaults to exec.LookPath
	LookPath func(string) (string, error)
}

// RunSource executes code with the global arg table set from argv, where
// argv[0] becomes arg[0].
func (r *Runner) RunSource(code string, argv []string) error {
	l := r.newState(argv)
	if err := lua.LoadBuffer(l, code, "=runpy", ""); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return r.call(l, argv)
}

// RunFile executes the Lua file at path as the main script with arg set from
// argv.
func (r *Runner) RunFile(path string, argv []string) error {
	l := r.newState(argv)
	l.PushString(MainName)
	l.SetGlobal("__name__")
	if err := lua.LoadFile(l, path, ""); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return r.call(l, argv)
}

// Launch implements +launch. args[0] is the command name, args[1] the script
// and the rest its arguments.
func (r *Runner) Launch(args []string) error {
	if len(args) < 2 {
		return dispatch.Usage(LaunchUsage)
	}

	exe := args[1]
	if name, ok := strings.CutPrefix(exe, ":"); ok {
		lookPath := r.LookPath
		if lookPath == nil {
			lookPath = exec.LookPath
		}
		p, err := lookPath(name)
		if err != nil || p == "" {
			return dispatch.Exitf("%s not found in PATH", name)
		}
		exe = p
	}

	info, err := os.Stat(exe)
	if err != nil {
		return dispatch.Exitf("%s does not exist", exe)
	}
	if info.IsDir() {
		main := filepath.Join(exe, MainFileName)
		if _, err := os.Stat(main); err != nil {
			return dispatch.Exitf("can't find %s in %s", MainFileName, exe)
		}
		exe = main
	}

	// arg[0] keeps the script as given, ":name" included
	return r.RunFile(exe, args[1:])
}

func (r *Runner) newState(argv []string) *lua.State {
	l := lua.NewState()
	lua.OpenLibraries(l)

	l.PushGoFunction(r.print)
	l.SetGlobal("print")

	l.NewTable()
	for i, a := range argv {
		l.PushString(a)
		l.RawSetInt(-2, i)
	}
	l.SetGlobal("arg")

	keys := make([]string, 0, len(r.Info))
	for k := range r.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	l.NewTable()
	for _, k := range keys {
		l.PushString(r.Info[k])
		l.SetField(-2, k)
	}
	l.SetGlobal("kitty")

	if r.Expose != nil {
		r.Expose(l)
	}
	return l
}

// call runs the loaded chunk with argv[1:] as its varargs
func (r *Runner) call(l *lua.State, argv []string) error {
	var rest []string
	if len(argv) > 1 {
		rest = argv[1:]
	}
	for _, a := range rest {
		l.PushString(a)
	}
	if err := l.ProtectedCall(len(rest), 0, 0); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return nil
}

func (r *Runner) print(l *lua.State) int {
	out := r.Stdout
	if out == nil {
		out = os.Stdout
	}
	n := l.Top()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, _ := lua.ToStringMeta(l, i)
		l.Pop(1)
		parts = append(parts, s)
	}
	fmt.Fprintln(out, strings.Join(parts, "\t"))
	return 0
}
