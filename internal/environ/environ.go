// Package environ prepares the process environment before any command runs.
//
// Bundled (frozen) builds ship their own CA certificates next to the
// extension modules and point SSL_CERT_FILE at them, since many systems have
// no usable certificate store or keep it somewhere unpredictable.
package environ

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/quocvuong92/kitty-launcher/internal/constants"
)

const (
	// CertBundleName is the file name of the bundled certificate store
	CertBundleName = "cacert.pem"
	// TrustEnvVar is the variable consulted by TLS clients for a CA bundle
	TrustEnvVar = "SSL_CERT_FILE"
)

// RunData describes how this binary was installed.
type RunData struct {
	Frozen        bool
	ExtensionsDir string `env:"KITTY_EXTENSIONS_DIR"`
}

// TrustState records what PrepareTLSTrust changed, for introspection.
type TrustState struct {
	EnvVar   string
	CertFile string
}

// Prepared reports whether a trust root was configured.
func (s TrustState) Prepared() bool {
	return s.EnvVar != ""
}

// LoadRunData returns the run data of the executable at exe. Bundled builds
// locate their extensions directory relative to the executable unless
// KITTY_EXTENSIONS_DIR overrides it.
func LoadRunData(exe string) (RunData, error) {
	rd := RunData{Frozen: constants.IsFrozen()}
	if !rd.Frozen {
		return rd, nil
	}

	if rel := constants.ExtensionsRelDir(); rel != "" {
		if filepath.IsAbs(rel) {
			rd.ExtensionsDir = rel
		} else if exe != "" {
			rd.ExtensionsDir = filepath.Join(filepath.Dir(exe), rel)
		}
	}
	if err := env.Parse(&rd); err != nil {
		return rd, fmt.Errorf("parse env: %w", err)
	}
	return rd, nil
}

// CertFile returns the bundled certificate store for an extensions directory.
// On macOS the extensions live three levels below the bundle resources, on
// every other platform one level below.
func CertFile(extDir, goos string) string {
	d := filepath.Clean(extDir)
	levels := 1
	if constants.IsMacOS(goos) {
		levels = 3
	}
	for i := 0; i < levels; i++ {
		d = filepath.Dir(d)
	}
	return filepath.Join(d, CertBundleName)
}

// PrepareTLSTrust points TrustEnvVar at the bundled certificate store. It is
// a no-op returning the zero TrustState when extDir is empty. setenv defaults
// to os.Setenv.
func PrepareTLSTrust(extDir, goos string, setenv func(key, value string) error) (TrustState, error) {
	if extDir == "" {
		return TrustState{}, nil
	}
	if setenv == nil {
		setenv = os.Setenv
	}

	certFile := CertFile(extDir, goos)
	if err := setenv(TrustEnvVar, certFile); err != nil {
		return TrustState{}, fmt.Errorf("set %s: %w", TrustEnvVar, err)
	}
	return TrustState{EnvVar: TrustEnvVar, CertFile: certFile}, nil
}

// Prepare runs PrepareTLSTrust for frozen builds and does nothing otherwise.
func Prepare(rd RunData, goos string) (TrustState, error) {
	if !rd.Frozen {
		return TrustState{}, nil
	}
	return PrepareTLSTrust(rd.ExtensionsDir, goos, nil)
}
