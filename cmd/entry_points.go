package cmd

import (
	"path/filepath"

	"github.com/quocvuong92/kitty-launcher/internal/config"
	"github.com/quocvuong92/kitty-launcher/internal/constants"
	"github.com/quocvuong92/kitty-launcher/internal/delegate"
	"github.com/quocvuong92/kitty-launcher/internal/dispatch"
	"github.com/quocvuong92/kitty-launcher/internal/display"
	"github.com/quocvuong92/kitty-launcher/internal/logging"
	"github.com/quocvuong92/kitty-launcher/internal/script"
)

// Messages
const (
	runpyUsage   = `Usage: kitty +runpy "some lua code"`
	shebangUsage = "Usage: kitty +shebang script [command to run it ...]"
	noEditorHint = "Cannot find an editor on your system. Set the \x1b[33meditor\x1b[39m value in " +
		config.ConfigFileName + " to the absolute path of your editor of choice."
)

// Every handler receives its own argument vector with the command name at
// index 0.

// icat is kept at the top level for backwards compatibility
func (a *App) icat(args []string) error {
	return a.kittens.Run("icat", args[1:])
}

func (a *App) listFonts(args []string) error {
	return a.kittens.ListFonts(args)
}

func (a *App) namespacedEntry(args []string) error {
	return a.dispatcher.DispatchNamespaced(args)
}

func (a *App) hold(args []string) error {
	return a.kittens.Hold(args)
}

func (a *App) complete(args []string) error {
	return a.kittens.Complete(args)
}

func (a *App) runKitten(args []string) error {
	return a.kittens.Kitten(args)
}

// runpy executes args[1] as Lua source with arg = {[0]="kitty", args[2:]...}
func (a *App) runpy(args []string) error {
	if len(args) < 2 {
		return dispatch.Usage(runpyUsage)
	}
	argv := append([]string{constants.AppName}, args[2:]...)
	a.scripts.Info = a.scriptInfo()
	return a.scripts.RunSource(args[1], argv)
}

func (a *App) launch(args []string) error {
	a.scripts.Info = a.scriptInfo()
	return a.scripts.Launch(args)
}

// openURLs starts the terminal with the arguments treated as URLs to open
func (a *App) openURLs(args []string) error {
	a.opts.OpenURLs = true
	return a.main(append([]string{constants.AppName}, args[1:]...))
}

func (a *App) shebang(args []string) error {
	if len(args) < 2 {
		return dispatch.Usage(shebangUsage)
	}
	argv, err := script.ParseShebang(args[1], args[2:], a.goos)
	if err != nil {
		return err
	}
	a.log.Debug("running script through its interpreter", logging.Fields{"script": args[1], "interpreter": argv[0]})
	return delegate.Argv(a.delegator, argv)
}

// edit replaces the process with the editor in args[1], passing args[1:].
func (a *App) edit(args []string) error {
	if constants.IsMacOS(a.goos) {
		// vim mishandles a SIGWINCH arriving right after startup
		a.sleep(constants.EditorStartDelay)
	}

	exe := ""
	if len(args) > 1 {
		exe = args[1]
	}
	if exe != "" && !filepath.IsAbs(exe) {
		p, err := a.lookPath(exe)
		if err != nil {
			p = ""
		}
		exe = p
	}
	if exe == "" || !delegate.IsExecutable(exe) {
		display.ShowError(noEditorHint)
		display.HoldTillEnter()
		return dispatch.Exit(1)
	}
	return a.delegator.Exec(exe, args[1:])
}

// editConfig opens the launcher config file in the editor, creating it first
// when missing. Options are reset to their defaults so that a broken file
// cannot prevent fixing it.
func (a *App) editConfig(args []string) error {
	*a.cfg = *config.Defaults()

	path, err := config.CreateDefaultConfigFile(config.Path())
	if err != nil {
		return err
	}
	editor, err := a.cfg.EditorCommand(a.lookPath)
	if err != nil {
		return err
	}

	argv := make([]string, 0, len(editor)+2)
	argv = append(argv, "edit")
	argv = append(argv, editor...)
	argv = append(argv, path)
	return a.edit(argv)
}

// scriptInfo is published to scripts as the global kitty table
func (a *App) scriptInfo() map[string]string {
	info := map[string]string{
		"version":    constants.Version,
		"config_dir": config.Directory(),
		"kitten_exe": a.kittens.Exe,
	}
	if a.trust.Prepared() {
		info["ssl_env_var"] = a.trust.EnvVar
		info["ssl_cert_file"] = a.trust.CertFile
	}
	return info
}
