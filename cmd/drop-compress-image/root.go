package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"

	"github.com/logue/drop-compress-image/internal/config"
	"github.com/logue/drop-compress-image/internal/desktop"
	"github.com/logue/drop-compress-image/internal/logging"
)

// Package-level hook for testing.
var runWails = wails.Run

type rootFlags struct {
	debug     bool
	configDir string
}

// Execute runs the CLI and returns the process exit code.
func Execute(assets fs.FS, args []string) int {
	cmd := newRootCmd(assets, os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(assets fs.FS, stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Drop Compress Image desktop application",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context(), flags, assets)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging and devtools")
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default ~/."+config.AppName+")")

	root.AddCommand(
		newInvokeCmd(flags),
		newCommandsCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads .env, config.toml and the environment, then applies flags.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(flags.configDir)
	if err != nil {
		return nil, err
	}
	if flags.debug {
		cfg.Debug = true
		cfg.DevTools = true
		cfg.Log.Level = logging.Debug.String()
	}
	return cfg, nil
}

func setupLogger(opts logging.Options) (zerolog.Logger, func(), error) {
	logger, closeFn, err := logging.New(opts)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	return logger.With().Str("app", config.AppName).Logger(), closeFn, nil
}

func runGUI(ctx context.Context, flags *rootFlags, assets fs.FS) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger, flush, err := setupLogger(cfg.LoggingOptions())
	if err != nil {
		return err
	}
	defer flush()

	plugins, err := desktop.Plugins(cfg, logger)
	if err != nil {
		return err
	}
	app, err := desktop.NewApp(cfg, logger, plugins)
	if err != nil {
		return err
	}

	logger.Info().Str("version", desktop.Version).Str("config", cfg.Path()).Msg("starting")
	if err := runWails(desktop.NewOptions(app, assets)); err != nil {
		logger.Error().Err(err).Msg("application exited with error")
		return err
	}
	return nil
}
