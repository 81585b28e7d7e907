package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pb33f/gqlific/config"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	noColor    bool
	logFile    string
	configPath string

	Logger *slog.Logger

	// closes the --log-file handle when one is open
	closeLog func() error

	rootCmd = &cobra.Command{
		Use:   "gqlific",
		Short: "A terminal GraphQL workbench",
		Long: `GQLific is a terminal workbench for GraphQL. Write a query, edit variables and
headers either as key/value pairs or as raw JSON, run it, and browse the response
as syntax highlighted JSON or as a table projected from the first list under data.

Queries are answered by a built-in mock responder shaped by the selection set, so
the workbench works without a server. Captured traffic can be opened from HAR files.`,
		Example: `  gqlific
  gqlific --query users.graphql --variables vars.json
  gqlific --har recording.har --operation GetUsersWithPosts
  gqlific --schema introspection.json -v --log-file gqlific.log`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
		RunE: runWorkbench,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured log output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/gqlific/config.yaml)")

	addWorkbenchFlags(rootCmd)

	// will be reconfigured in PersistentPreRunE based on flags
	Logger = newLogger(os.Stderr, slog.LevelInfo, !isatty.IsTerminal(os.Stderr.Fd()))
}

// setupLogger configures the global slog logger from the persistent flags
func setupLogger() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = colorable.NewColorable(os.Stderr)
	plain := noColor || !isatty.IsTerminal(os.Stderr.Fd())

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.FilePermissions)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w, plain = f, true
		closeLog = f.Close
	}

	Logger = newLogger(w, level, plain)
	slog.SetDefault(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled",
			"level", slog.LevelDebug.String(),
			"pid", os.Getpid())
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level, plain bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  level == slog.LevelDebug,
		TimeFormat: time.TimeOnly,
		NoColor:    plain,
	}))
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		if err := setupLogger(); err != nil {
			return slog.Default()
		}
	}
	return Logger
}

// loadConfig reads --config, or the default location when it is not set.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			GetLogger().Debug("no config directory, using defaults", "error", err)
			return config.Default(), nil
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	GetLogger().Debug("configuration loaded", "path", path, "environments", len(cfg.Environments))
	return cfg, nil
}

// ValidateFile checks that path exists and is a regular file
func ValidateFile(kind, path string) error {
	if path == "" {
		return fmt.Errorf("%s file path is required", kind)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s file does not exist: %s", kind, path)
		}
		return fmt.Errorf("error accessing %s file: %w", kind, err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", path)
	}

	return nil
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	if err := ValidateFile("input", path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
