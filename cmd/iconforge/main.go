package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/iconforge/internal/core"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

type app struct {
	configPath string
	verbose    bool
	config     *core.ServiceConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "iconforge",
		Short: "Generate and export Flutter app icons",
		Long: `iconforge renders a placeholder app icon and resizes it into the
Android and iOS launcher icon sizes of a Flutter project.

Available subcommands:
  generate - Render assets/icon/app_icon.png and its foreground variant
  copy     - Resize the icon into the Android and iOS asset directories
  serve    - Preview every planned icon in the browser
  version  - Print the version`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: $CONFIG_PATH or ./iconforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newCopyCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) loadConfig(logOutput io.Writer) error {
	configPath := core.ResolveConfigPath(a.configPath)
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return err
	}
	a.config = config

	level := config.LogLevel
	if a.verbose {
		level = "debug"
	}
	setupLogger(logOutput, level)
	if configPath != "" {
		slog.Debug("loaded config", "path", configPath)
	}
	return nil
}

func setupLogger(w io.Writer, level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, core.ErrSourceNotFound) {
			fmt.Fprintf(stderr, "❌ %v\nRun `iconforge generate` first or place your icon at the configured iconPath.\n", err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
