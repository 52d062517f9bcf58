// Package cli wires the configuration, cache, session and panel together
// behind the tunepanel command line.
package cli

import (
	"fmt"
	"os"

	"github.com/haryoiro/tunepanel/internal/assets"
	"github.com/haryoiro/tunepanel/internal/config"
	"github.com/haryoiro/tunepanel/internal/constants"
	"github.com/haryoiro/tunepanel/internal/database"
	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/panel"
	"github.com/haryoiro/tunepanel/internal/structures"
	"github.com/haryoiro/tunepanel/internal/systems"
	"github.com/haryoiro/tunepanel/internal/termcap"
	"github.com/haryoiro/tunepanel/internal/ui"
	"github.com/haryoiro/tunepanel/internal/version"
	"github.com/spf13/cobra"
)

// app is the state shared by every command, filled in by setup.
type app struct {
	configPath   string
	templatePath string
	debug        bool

	dirs config.Dirs
	cfg  *structures.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tunepanel [files...]",
		Short: "Templated now-playing panel for the terminal",
		Long: `tunepanel plays through a list of music files and draws a status panel
from a text template, fitted to the terminal width on every refresh.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			log := logger.Component("cli")
			log.Debug().Str("command", cmd.Name()).Strs("args", args).Msg("Command started")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.CloseLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLive(args)
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/tunepanel/config.toml)")
	root.PersistentFlags().StringVar(&a.templatePath, "template", "", "panel template file (overrides panel.template_path)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newRenderCmd(a),
		newCheckCmd(a),
		newTagCmd(a),
		newFilesCmd(a),
		newClearCacheCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves directories, loads the config and starts file logging.
func (a *app) setup() error {
	a.dirs = config.DefaultDirs()
	if err := a.dirs.Ensure(); err != nil {
		return err
	}

	path := a.configPath
	if path == "" {
		path = a.dirs.ConfigFile()
	}
	cfg, created, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logger.INFO
	}
	if a.debug {
		level = logger.DEBUG
	}
	if err := logger.InitLogger(a.dirs.LogFile(), level, a.debug); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if created {
		logger.Info("Created default config at: %s", path)
	} else {
		logger.Debug("Configuration loaded from: %s", path)
	}
	return nil
}

// templateSource picks the --template flag, then panel.template_path,
// then a screen.templ in the config directory, then the built-in template.
func (a *app) templateSource() (string, error) {
	path := a.templatePath
	if path == "" {
		path = a.cfg.Panel.TemplatePath
	}
	if path == "" {
		if _, err := os.Stat(a.dirs.TemplateFile()); err == nil {
			path = a.dirs.TemplateFile()
		}
	}
	logger.Debug("Using template %q", path)
	return assets.LoadTemplate(path)
}

// buildPanel parses the template for output to f.
func (a *app) buildPanel(f *os.File) (*panel.Panel, error) {
	src, err := a.templateSource()
	if err != nil {
		return nil, err
	}
	p, err := panel.New(a.cfg.Panel, src, termcap.Profile(a.cfg.Panel.Profile, f))
	if err != nil {
		return nil, err
	}
	for _, w := range p.ParseWarnings() {
		logger.Warn("%s", w)
	}
	return p, nil
}

// width is the explicit width, then panel.width, then the width of f.
func (a *app) width(explicit int, f *os.File) int {
	if explicit > 0 {
		return explicit
	}
	if a.cfg.Panel.Width > 0 {
		return a.cfg.Panel.Width
	}
	return termcap.Width(f, constants.DefaultWidth)
}

func (a *app) openDatabase() (*database.SQLiteDatabase, error) {
	db, err := database.OpenSQLite(a.dirs.DatabaseFile())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("SQLite database opened: %s", db.Path())
	return db, nil
}

func (a *app) runLive(files []string) error {
	p, err := a.buildPanel(os.Stdout)
	if err != nil {
		return err
	}
	if err := p.CheckWidth(a.width(0, os.Stdout)); err != nil {
		return err
	}

	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	defer func() {
		logger.Debug("Closing database connection")
		db.Close()
	}()

	sys := systems.New(a.cfg, db)
	if err := sys.Start(); err != nil {
		return err
	}
	defer func() {
		logger.Debug("Stopping all application systems...")
		sys.Stop()
	}()
	sys.Load(absPaths(files))

	logger.Debug("Starting UI")
	if err := ui.Run(sys, a.cfg, p, termcap.ColorEnabled(a.cfg.Panel.Color, os.Stdout)); err != nil {
		logger.Error("Application error: %v", err)
		return err
	}
	logger.Info("tunepanel shutdown complete")
	return nil
}
