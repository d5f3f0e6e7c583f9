// Package cli implements the pylon command-line interface.
//
// The commands are:
//   - analyze: run a TOML design through the pipeline and write reports
//   - mesh: show the adjusted geometry and the node mesh of a design
//   - example: print a commented example design
//   - cache: manage the solver result cache
//   - serve: run the HTTP API
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every pipeline stage, load case and cache event.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pylon/pkg/buildinfo"
	"github.com/matzehuels/pylon/pkg/cache"
	"github.com/matzehuels/pylon/pkg/config"
	"github.com/matzehuels/pylon/pkg/observability"
	"github.com/matzehuels/pylon/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pylon"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks log through the CLI logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := &logHooks{logger: c.Logger}
		observability.SetPipelineHooks(h)
		observability.SetCacheHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pylon assembles and checks wind turbine towers and monopiles",
		Long:         `Pylon turns a tower and foundation design into a discretized beam model, assembles masses, supports and loads, solves each load case and reports stress and buckling margins.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.meshCommand())
	root.AddCommand(c.exampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheOpts selects the solver cache for a command.
type cacheOpts struct {
	noCache  bool
	redisURL string
	dir      string
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts cacheOpts) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache prefers Redis when a URL is configured, then the file cache. An
// unusable cache directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, opts cacheOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: opts.redisURL, Prefix: appName + ":"})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}

	dir := opts.dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	c.Logger.Debug("using file cache", "dir", dir)
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns $PYLON_CACHE_DIR, or the XDG cache directory
// (~/.cache/pylon/).
func cacheDir() (string, error) {
	if dir := os.Getenv(config.EnvCacheDir); dir != "" {
		return dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
