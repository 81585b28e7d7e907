package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/gqlific/config"
	"github.com/pb33f/gqlific/mockgen"
	"github.com/pb33f/gqlific/session"
	"github.com/pb33f/gqlific/tui"
	"github.com/spf13/cobra"
)

// workbenchFlags seed a session. They are shared by the root command and run.
type workbenchFlags struct {
	queryFile     string
	variablesFile string
	headersFile   string
	operation     string
	environment   string

	// mock responder
	seed     int64
	latency  time.Duration
	maxItems int
	dictPath string

	// interactive only
	harFile    string
	schemaFile string
	watch      bool
}

var workbench workbenchFlags

func addWorkbenchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&workbench.queryFile, "query", "q", "", "GraphQL document to open")
	f.StringVar(&workbench.variablesFile, "variables", "", "JSON object of variables")
	f.StringVar(&workbench.headersFile, "headers", "", "JSON object of request headers")
	f.StringVarP(&workbench.operation, "operation", "o", "", "Operation to run, or to open from --har")
	f.StringVarP(&workbench.environment, "env", "e", "", "Environment to target (default: config active)")
	f.Int64Var(&workbench.seed, "seed", 1, "Mock responder seed")
	f.DurationVar(&workbench.latency, "latency", 0, "Mock responder latency")
	f.IntVar(&workbench.maxItems, "max-items", 5, "Longest list the mock responder generates")
	f.StringVar(&workbench.dictPath, "dict", mockgen.DefaultDictionaryPath, "Dictionary for generated values")

	if cmd == rootCmd {
		f.StringVar(&workbench.harFile, "har", "", "HAR capture whose GraphQL operations are listed in History")
		f.StringVar(&workbench.schemaFile, "schema", "", "Introspection result for the schema explorer")
		f.BoolVarP(&workbench.watch, "watch", "w", true, "Reload --query when the file changes")
	}
}

// readOptional reads path, returning fallback when path is empty.
func readOptional(kind, path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	if err := ValidateFile(kind, path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return string(data), nil
}

// newSession builds a session from config defaults, overridden by flags.
func newSession(cfg *config.Config, flags workbenchFlags, logger *slog.Logger) (*session.Session, error) {
	query, err := readOptional("query", flags.queryFile, cfg.Defaults.Query)
	if err != nil {
		return nil, err
	}
	variables, err := readOptional("variables", flags.variablesFile, cfg.Defaults.Variables)
	if err != nil {
		return nil, err
	}
	headers, err := readOptional("headers", flags.headersFile, cfg.Defaults.Headers)
	if err != nil {
		return nil, err
	}

	env := cfg.ActiveEnvironment()
	if flags.environment != "" {
		e, ok := cfg.Environment(flags.environment)
		if !ok {
			return nil, fmt.Errorf("environment %q is not defined", flags.environment)
		}
		env = e
	}

	dict, err := mockgen.LoadDictionary(flags.dictPath)
	if err != nil {
		return nil, err
	}

	exec := mockgen.NewExecutor(mockgen.Options{
		Seed:       flags.seed,
		MaxItems:   flags.maxItems,
		Latency:    flags.latency,
		Dictionary: dict,
	})

	sess := session.New(session.Options{
		Query:         query,
		OperationName: flags.operation,
		Variables:     variables,
		Headers:       headers,
		HistoryLimit:  cfg.HistoryLimit,
		Executor:      exec,
		Logger:        logger,
	})
	if err := sess.ApplyEnvironment(env); err != nil {
		return nil, err
	}

	logger.Debug("session ready", "environment", env.Name, "endpoint", env.URL, "dictionary", dict.Size())
	return sess, nil
}

func runWorkbench(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := workbench
	if flags.harFile != "" {
		if err := ValidateFile("HAR", flags.harFile); err != nil {
			return fmt.Errorf("invalid HAR file: %w", err)
		}
		// --operation names a captured operation, not one of the opened document
		flags.operation = ""
	}
	if flags.schemaFile != "" {
		if err := ValidateFile("schema", flags.schemaFile); err != nil {
			return err
		}
	}

	// the alternate screen has no room for log lines, they only go to --log-file
	uiLogger := logger
	if logFile == "" {
		uiLogger = slog.New(slog.DiscardHandler)
	}

	sess, err := newSession(cfg, flags, uiLogger)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Session:     sess,
		Config:      cfg,
		SchemaPath:  workbench.schemaFile,
		CapturePath: workbench.harFile,
		Logger:      uiLogger,
	}
	if workbench.harFile != "" {
		opts.Operation = workbench.operation
	}
	if workbench.watch && workbench.queryFile != "" {
		opts.QueryPath = workbench.queryFile
	}

	logger.Info("launching workbench", "har_file", workbench.harFile, "schema", workbench.schemaFile)
	if err := LaunchTUI(opts); err != nil {
		return fmt.Errorf("failed to launch TUI: %w", err)
	}
	return nil
}

func LaunchTUI(opts tui.Options) error {
	model, err := tui.NewWorkbenchModel(opts)
	if err != nil {
		return fmt.Errorf("failed to create TUI model: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
