package main

import (
	"filechooser/internal/chooser"
	"filechooser/internal/classify"
	"filechooser/internal/config"
	"filechooser/internal/errors"
	"filechooser/internal/filter"
	"filechooser/internal/fsys"
	"filechooser/internal/icons"
	"filechooser/internal/log"
	"filechooser/internal/mimeinfo"
	"filechooser/internal/portal"
	"filechooser/internal/scan"
	"filechooser/internal/watch"

	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand once the root has
// loaded the configuration.
type app struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
	logger  *log.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "filechooser",
		Short: "A terminal file chooser",
		Long: `filechooser browses directories and hands the chosen files back as URIs.

Large directories are listed incrementally, so the first entries show up
before the whole directory has been read.`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/filechooser/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newPickCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newOptionsCmd())

	return rootCmd
}

// setup loads the configuration and configures logging. An explicit
// --config that cannot be loaded is an error; a broken default file only
// produces a warning.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadConfigFile(a.cfgFile)
		if err != nil {
			return errors.Wrapf(err, "loading %s", a.cfgFile)
		}
	} else {
		a.cfg, err = config.LoadConfig()
	}

	opts := []log.Option{log.WithOutput(cmd.ErrOrStderr())}
	if a.cfg != nil && a.cfg.Logging.JSON {
		opts = append(opts, log.WithJSON())
	}
	if a.cfg != nil && a.cfg.Logging.File != "" {
		opts = append(opts, log.WithFile(a.cfg.Logging.File))
	}
	log.Configure(opts...)
	a.logger = log.Default()

	if err != nil {
		a.logger.WithError(err).Warn("using default settings")
		a.cfg = config.New()
	}
	log.SetDebug(a.debug || a.cfg.Logging.Debug)
	return nil
}

// newChooser wires the services behind a Chooser from the configuration.
func (a *app) newChooser(req portal.Options, watching bool) *chooser.Chooser {
	cfg := a.cfg
	filesystem := fsys.OS{}
	db := mimeinfo.NewDatabase()
	cache := icons.NewCache(icons.NewXDGLookup(cfg.Icons.SearchPaths...))
	resolver := icons.NewResolver(db, cache, cfg.Icons.Theme)

	classifyOpts := []classify.Option{classify.WithLogger(a.logger)}
	if cfg.Scan.ContentSniff {
		classifyOpts = append(classifyOpts, classify.WithContentDetector(db))
	}
	scanner := scan.NewScanner(filesystem, classify.New(filesystem, resolver, classifyOpts...),
		scan.WithSyncThreshold(cfg.Scan.SyncThreshold),
		scan.WithBatchSize(cfg.Scan.BatchSize),
		scan.WithWorkers(cfg.Scan.Workers),
		scan.WithLogger(a.logger))

	opts := []chooser.Option{
		chooser.WithFS(filesystem),
		chooser.WithRequest(req),
		chooser.WithFilter(filter.FromConfig(cfg)),
		chooser.WithRenderCap(cfg.Scan.RenderCap),
		chooser.WithLogger(a.logger),
	}
	if watching && cfg.Browser.Watch {
		w, err := watch.New(watch.WithLogger(a.logger))
		if err != nil {
			a.logger.WithError(err).Warn("directory watching disabled")
		} else {
			opts = append(opts, chooser.WithWatcher(w))
		}
	}
	return chooser.New(scanner, resolver, opts...)
}
