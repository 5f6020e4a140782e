package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/todos"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// App carries root flags and the collaborators built from them.
type App struct {
	ConfigPath string
	APIURL     string
	LogLevel   string
	Theme      string
	Color      string

	cfg    config.Config
	logger *logging.Logger
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Todo list client for a REST todo API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Interactive list
  todo

  # Scriptable commands
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rename 2 "Buy oat milk"
  todo rm 3
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(app.controller())
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, so console logging is muted there.
		return app.setup(cmd, cmd == cmd.Root())
	}

	f := cmd.PersistentFlags()
	f.StringVar(&app.ConfigPath, "config", "", "path to config TOML (default $XDG_CONFIG_HOME/tada/config.toml)")
	f.StringVar(&app.APIURL, "api", "", "API base URL, e.g. http://localhost:8080/api")
	f.StringVar(&app.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&app.Theme, "theme", "", "theme: "+strings.Join(ui.Themes(), ", "))
	f.StringVar(&app.Color, "color", ui.ColorAuto, "color output: auto, always, never")

	cmd.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newDoneCmd(app),
		newRenameCmd(app),
		newRemoveCmd(app),
		newExportCmd(app),
		newHealthCmd(app),
	)
	for _, c := range append([]*cobra.Command{cmd}, cmd.Commands()...) {
		if c.RunE != nil {
			c.RunE = app.closing(c.RunE)
		}
	}
	return cmd
}

// closing releases the logger once run returns, whether or not it failed.
func (a *App) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, a.logger.Close())
	}
}

func (a *App) setup(cmd *cobra.Command, quiet bool) error {
	path := a.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path, config.Default(), config.Overrides{
		BaseURL:  a.APIURL,
		LogLevel: a.LogLevel,
		Theme:    a.Theme,
	})
	if err != nil {
		return fmt.Errorf("load config %q: %w", path, err)
	}
	if err := ui.SetTheme(cfg.UI.Theme); err != nil {
		return err
	}
	if err := ui.SetColorMode(a.Color); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging, quiet)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	logger.Debug("configuration loaded",
		"config_path", path,
		"api", cfg.API.BaseURL,
		"log_file", logger.Path(),
		"command", cmd.Name(),
	)

	a.cfg = cfg
	a.logger = logger
	a.client = api.New(cfg.API.BaseURL,
		api.WithLogger(logger.Logger),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout()}),
	)
	return nil
}

func (a *App) controller() todos.Controller {
	return todos.New(a.client, todos.Config{
		Logger:  a.logger.Logger,
		Timeout: a.cfg.API.Timeout(),
	})
}
