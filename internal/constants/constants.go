// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// Application identity
const (
	AppName    = "kitty"
	KittenName = "kitten"
	EngineName = "kitty-engine"
	Version    = "0.42.0"
)

// Link-time bundle metadata. Bundled builds set these with
//
//	-ldflags "-X github.com/quocvuong92/kitty-launcher/internal/constants.bundleKind=frozen
//	          -X github.com/quocvuong92/kitty-launcher/internal/constants.extensionsRelDir=../lib/kitty/extensions"
var (
	bundleKind       = ""
	extensionsRelDir = ""
)

// Timeouts
const (
	// EditorStartDelay works around editors that mishandle an early SIGWINCH on macOS
	EditorStartDelay = 50 * time.Millisecond
)

// Sentinels recognised on the command line
const (
	// NamespacePrefix marks a namespaced command, as in "+launch"
	NamespacePrefix = "+"
	// ReservedPrefixes marks top-level only entries excluded from the namespace
	ReservedPrefixes = "+@"
	// ExtensionSentinel asks shebang dispatch to use the script's extension as the command
	ExtensionSentinel = "__ext__"
)

// IsFrozen reports whether this binary is a bundled distribution
func IsFrozen() bool {
	return bundleKind == "frozen"
}

// ExtensionsRelDir returns the link-time extensions directory, relative to the executable
func ExtensionsRelDir() string {
	return extensionsRelDir
}

// IsMacOS reports whether goos names the macOS platform family
func IsMacOS(goos string) bool {
	return goos == "darwin"
}

// KittenExe returns the path of the kitten multi-tool, preferring the one
// installed next to the running executable.
func KittenExe() string {
	return siblingExe(KittenName)
}

// EngineExe returns the path of the terminal engine executable.
func EngineExe() string {
	return siblingExe(EngineName)
}

func siblingExe(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	return name
}
