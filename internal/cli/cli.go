// Package cli implements the drawtree command-line interface.
//
// This package provides commands for converting extensive form game
// descriptions into TikZ drawings, translating Gambit .efg files into
// the description language, compiling drawings to PDF or PNG, and
// managing the compiled artifact cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - draw: Convert a .ef or .efg file into TikZ picture code
//   - convert: Translate a Gambit .efg game into a .ef file
//   - render: Compile a game tree to PDF or PNG via pdflatex
//   - cache: Manage the compiled artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gambitproject/draw-tree/pkg/buildinfo"
	"github.com/gambitproject/draw-tree/pkg/cache"
	"github.com/gambitproject/draw-tree/pkg/config"
	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "drawtree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "drawtree",
		Short:        "Drawtree draws extensive form game trees with TikZ",
		Long:         `Drawtree converts extensive form game descriptions (.ef files or Gambit .efg files) into TikZ drawing code and optionally compiles them to PDF or PNG with pdflatex.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(newCache(noCache), c.Logger)
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/drawtree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// applyConfig seeds unset option values from the user config file.
// Explicit flag values have already been written into opts and win.
func applyConfig(opts *pipeline.Options, cfg config.Config) {
	if opts.Scale == 0 && cfg.Scale != 0 {
		opts.Scale = cfg.Scale
	}
	if opts.DPI == 0 && cfg.DPI != 0 {
		opts.DPI = cfg.DPI
	}
	if opts.Radius == 0 && cfg.Radius != 0 {
		opts.Radius = cfg.Radius
	}
	if opts.Elongation == ([2]float64{}) && cfg.Elongation != ([2]float64{}) {
		opts.Elongation = cfg.Elongation
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatTikZ}
	}
	return strings.Split(s, ",")
}
