package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quocvuong92/kitty-launcher/internal/constants"
	"github.com/quocvuong92/kitty-launcher/internal/dispatch"
	"github.com/quocvuong92/kitty-launcher/internal/logging"
)

// LaunchOptions are handed to the terminal engine by the default entry point
type LaunchOptions struct {
	// OpenURLs treats the positional arguments as URLs to open, set by +open
	OpenURLs bool

	Configs        []string
	Overrides      []string
	Directory      string
	Title          string
	Class          string
	Hold           bool
	SingleInstance bool
	ListenOn       string
	StartAs        string
	Debug          bool

	// Args are the positional arguments: a program to run, or URLs
	Args []string
}

// EngineArgs returns the engine argument vector, argv[0] included.
func (o LaunchOptions) EngineArgs() []string {
	argv := []string{constants.AppName}
	for _, c := range o.Configs {
		argv = append(argv, "--config", c)
	}
	for _, ov := range o.Overrides {
		argv = append(argv, "--override", ov)
	}
	for _, opt := range []struct{ flag, value string }{
		{"--directory", o.Directory},
		{"--title", o.Title},
		{"--class", o.Class},
		{"--listen-on", o.ListenOn},
		{"--start-as", o.StartAs},
	} {
		if opt.value != "" {
			argv = append(argv, opt.flag, opt.value)
		}
	}
	if o.Hold {
		argv = append(argv, "--hold")
	}
	if o.SingleInstance {
		argv = append(argv, "--single-instance")
	}

	if o.OpenURLs {
		for _, u := range o.Args {
			argv = append(argv, "--open-url", u)
		}
		return argv
	}
	if len(o.Args) > 0 {
		argv = append(argv, "--")
		argv = append(argv, o.Args...)
	}
	return argv
}

// newMainCommand builds the default entry point. Flags stop at the first
// positional argument so that the program to run keeps its own flags.
func (a *App) newMainCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "kitty [options] [program-to-run ...]",
		Short: "A fast, feature-rich, GPU based terminal emulator",
		Long: `Run the kitty terminal emulator. You can also specify the program to run
inside kitty as normal arguments following the options.

Examples:
  kitty                                 # Open a window running your shell
  kitty -d ~/src htop                   # Run htop in ~/src
  kitty --hold -T build make            # Keep the window open after make exits
  kitty +open https://sw.kovidgoyal.net # Open a URL
  kitty +kitten icat image.png          # Run a kitten`,
		Version:       constants.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.opts.Args = args
			return a.launchEngine()
		},
	}
	c.Flags().SetInterspersed(false)
	c.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return dispatch.Usage(err.Error())
	})

	f := c.Flags()
	f.StringArrayVarP(&a.opts.Configs, "config", "c", nil, "Path to a config file, can be given multiple times")
	f.StringArrayVarP(&a.opts.Overrides, "override", "o", nil, "Override an individual configuration option, e.g. -o font_size=20")
	f.StringVarP(&a.opts.Directory, "directory", "d", "", "Change to the specified directory when launching")
	f.StringVarP(&a.opts.Title, "title", "T", "", "Set the OS window title")
	f.StringVar(&a.opts.Class, "class", "", "Set the class part of the WM_CLASS window property")
	f.BoolVar(&a.opts.Hold, "hold", false, "Remain open after the child process exits")
	f.BoolVarP(&a.opts.SingleInstance, "single-instance", "1", false, "Use a single kitty instance for all windows")
	f.StringVar(&a.opts.ListenOn, "listen-on", "", "Listen on the specified address for remote control, e.g. unix:/tmp/mykitty")
	f.StringVar(&a.opts.StartAs, "start-as", "", "Initial window state: normal, fullscreen, maximized or minimized")
	f.BoolVar(&a.opts.Debug, "debug", false, "Log what the launcher does to stderr")
	return c
}

// main is the default entry point, reached when argv names no command.
func (a *App) main(argv []string) error {
	// cobra falls back to os.Args for nil args
	args := []string{}
	if len(argv) > 1 {
		args = argv[1:]
	}
	c := a.newMainCommand()
	c.SetArgs(args)
	return c.Execute()
}

func (a *App) launchEngine() error {
	if a.opts.Debug {
		logging.DefaultLogger.SetLevel(logging.LevelDebug)
	}
	switch a.opts.StartAs {
	case "", "normal", "fullscreen", "maximized", "minimized":
	default:
		return dispatch.Exitf("%s is not a valid value for --start-as", a.opts.StartAs)
	}

	exe := a.cfg.ResolveEngineExe()
	a.log.Debug("launching terminal engine", logging.Fields{"exe": exe, "open_urls": a.opts.OpenURLs})
	return a.delegator.Exec(exe, a.opts.EngineArgs())
}
