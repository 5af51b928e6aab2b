package cmd

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/quocvuong92/kitty-launcher/internal/config"
	"github.com/quocvuong92/kitty-launcher/internal/constants"
	"github.com/quocvuong92/kitty-launcher/internal/delegate"
	"github.com/quocvuong92/kitty-launcher/internal/dispatch"
	"github.com/quocvuong92/kitty-launcher/internal/display"
	"github.com/quocvuong92/kitty-launcher/internal/environ"
	"github.com/quocvuong92/kitty-launcher/internal/kittens"
	"github.com/quocvuong92/kitty-launcher/internal/logging"
	"github.com/quocvuong92/kitty-launcher/internal/registry"
	"github.com/quocvuong92/kitty-launcher/internal/script"
)

// App holds the application state
type App struct {
	cfg       *config.Config
	log       *logging.FieldLogger
	delegator delegate.Delegator
	kittens   *kittens.Runner
	scripts   *script.Runner

	trust environ.TrustState
	opts  LaunchOptions

	// Platform hooks, replaced in tests
	goos     string
	sleep    func(time.Duration)
	lookPath func(string) (string, error)

	top        *registry.Table
	namespaced *registry.Table
	dispatcher *dispatch.Dispatcher
}

// NewApp creates an App that delegates through d. The command tables are
// built here and never change afterwards.
func NewApp(cfg *config.Config, d delegate.Delegator, log *logging.FieldLogger) *App {
	if log == nil {
		log = logging.DefaultLogger.WithFields(nil)
	}
	app := &App{
		cfg:       cfg,
		log:       log,
		delegator: d,
		kittens:   kittens.NewRunner(cfg.ResolveKittenExe(), d),
		scripts:   &script.Runner{},
		goos:      runtime.GOOS,
		sleep:     time.Sleep,
		lookPath:  exec.LookPath,
	}

	app.top = registry.NewBuilder().
		Add("icat", app.icat).
		Add("list-fonts", app.listFonts).
		Add(constants.NamespacePrefix, app.namespacedEntry).
		MustBuild()

	app.namespaced = registry.Derive(app.top, constants.ReservedPrefixes).
		Add("hold", app.hold).
		Add("complete", app.complete).
		Add("runpy", app.runpy).
		Add("launch", app.launch).
		Add("open", app.openURLs).
		Add("kitten", app.runKitten).
		Add("edit-config", app.editConfig).
		Add("shebang", app.shebang).
		Add("edit", app.edit).
		MustBuild()

	app.dispatcher = dispatch.New(app.top, app.namespaced, app.main, log)
	return app
}

// newDelegator returns the Delegator used by Run
var newDelegator = func(log *logging.FieldLogger) delegate.Delegator {
	return delegate.Process{Log: log}
}

// Execute runs the launcher with the process arguments and exits with the
// resulting status. It only returns control to the OS.
func Execute() {
	os.Exit(Run(os.Args))
}

// Run loads configuration, prepares the environment and dispatches argv,
// returning the process exit status.
func Run(argv []string) int {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrInvalidFile) {
		display.ShowError(err.Error())
		return 1
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)
	log := logging.DefaultLogger.WithFields(logging.Fields{"invocation": uuid.NewString()})
	if err != nil {
		// +edit-config must stay reachable to repair the file
		log.Warn("ignoring config file", logging.Fields{"path": config.Path(), "error": err.Error()})
	} else if src := cfg.Source(); src != "" {
		log.Debug("loaded config", logging.Fields{"path": src})
	}

	app := NewApp(cfg, newDelegator(log), log)
	if err := app.prepare(); err != nil {
		display.ShowError(err.Error())
		return 1
	}
	return app.Run(argv)
}

// prepare runs the one-time environment setup for bundled builds
func (a *App) prepare() error {
	exe, err := os.Executable()
	if err != nil {
		a.log.Debug("cannot locate executable", logging.Fields{"error": err.Error()})
	}
	rd, err := environ.LoadRunData(exe)
	if err != nil {
		return err
	}
	a.trust, err = environ.Prepare(rd, a.goos)
	if err != nil {
		return err
	}
	if a.trust.Prepared() {
		a.log.Debug("prepared TLS trust", logging.Fields{"env": a.trust.EnvVar, "cert_file": a.trust.CertFile})
	}
	return nil
}

// Run dispatches argv and converts the outcome to an exit status. Error
// messages go to stderr.
func (a *App) Run(argv []string) int {
	err := a.dispatcher.Dispatch(argv)
	if err != nil && !dispatch.Silent(err) {
		display.ShowError(err.Error())
	}
	code := dispatch.ExitCode(err)
	if err != nil {
		a.log.Debug("dispatch finished", logging.Fields{"exit_code": code})
	}
	return code
}
