// Package delegate replaces the running process image with another program.
//
// A successful Exec never returns: the process keeps its pid, environment and
// non close-on-exec descriptors but runs the target program from then on.
// Exec therefore only ever returns an error.
package delegate

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/quocvuong92/kitty-launcher/internal/logging"
)

// Delegator hands the process over to another program.
type Delegator interface {
	// Exec replaces the process with the program exe, searched for in PATH
	// when it contains no path separator, passing argv as its arguments
	// (argv[0] included). It returns only on failure.
	Exec(exe string, argv []string) error
}

// Argv runs argv[0] with argv, the execvp convention.
func Argv(d Delegator, argv []string) error {
	if len(argv) == 0 {
		return ErrNoProgram
	}
	return d.Exec(argv[0], argv)
}

// ErrNoProgram is returned when there is nothing to execute.
var ErrNoProgram = errors.New("no program to execute")

// NotFoundError reports a program that could not be resolved.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	if strings.ContainsRune(e.Name, os.PathSeparator) {
		return fmt.Sprintf("%s is not an executable file", e.Name)
	}
	return fmt.Sprintf("%s not found in PATH", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Resolve finds the executable named by name the way a shell would.
func Resolve(name string) (string, error) {
	if name == "" {
		return "", ErrNoProgram
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", &NotFoundError{Name: name, Err: err}
	}
	return p, nil
}

// IsExecutable reports whether path names a file the process may execute.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}

// Process is the Delegator backed by execve(2).
type Process struct {
	Log *logging.FieldLogger
}

// Exec resolves exe before touching the process, so resolution errors leave
// the caller running and able to report them.
func (p Process) Exec(exe string, argv []string) error {
	if len(argv) == 0 {
		return ErrNoProgram
	}
	path, err := Resolve(exe)
	if err != nil {
		return err
	}

	if p.Log != nil && p.Log.Enabled(logging.LevelDebug) {
		p.Log.Debug("replacing process image", logging.Fields{"exe": path, "argv": strings.Join(argv, " ")})
	}
	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// ErrRecorded is what Recorder.Exec returns in place of never returning.
var ErrRecorded = errors.New("delegation recorded")

// Recorder is a Delegator that remembers what would have been executed.
// Calls to Exec end with ErrRecorded so callers unwind as they would after a
// failed exec.
type Recorder struct {
	Calls []Call
	// Err, when set, is returned instead of ErrRecorded
	Err error
}

// Call is one recorded delegation.
type Call struct {
	Exe  string
	Argv []string
}

// Exec records exe and a copy of argv.
func (r *Recorder) Exec(exe string, argv []string) error {
	call := Call{Exe: exe, Argv: make([]string, len(argv))}
	copy(call.Argv, argv)
	r.Calls = append(r.Calls, call)
	if r.Err != nil {
		return r.Err
	}
	return ErrRecorded
}

// Last returns the most recent recorded delegation, or the zero Call.
func (r *Recorder) Last() Call {
	if len(r.Calls) == 0 {
		return Call{}
	}
	return r.Calls[len(r.Calls)-1]
}
