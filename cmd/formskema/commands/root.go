// Package commands implements the formskema CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/internal/config"
	"github.com/reoring/formskema/internal/logging"
)

const version = "0.1.0"

// errValidationFailed signals invalid data; the report has already been
// printed.
var errValidationFailed = errors.New("validation failed")

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	logger     *slog.Logger
	configPath string
	verbosity  int
	logFile    string
	closeLog   func() error
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New(), logger: logging.NewDiscard(), closeLog: func() error { return nil }}

	root := &cobra.Command{
		Use:   "formskema",
		Short: "Validate form data against schemas with anyOf/allOf/oneOf",
		Long: `formskema validates JSON or YAML form data against JSON-Schema-like
definitions and reports the failures per field.

Settings are read from config.yaml in the working directory or in
$XDG_CONFIG_HOME/formskema, FORMSKEMA_* environment variables and flags.`,
		Example: `  # Validate a submission
  formskema validate form.json submission.json

  # Show the combinator-free variants of a schema
  formskema explode form.json`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.closeLog()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: ./config.yaml or $XDG_CONFIG_HOME/formskema/config.yaml)")
	pf.CountVarP(&a.verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug)")
	pf.String("log-format", "", "log format: text, json")
	pf.StringVar(&a.logFile, "log-file", "", "also write logs to this file as JSON")
	pf.String("lang", "", "message language: en, ja")
	pf.StringP("output", "o", "", "output format: text, json")
	_ = a.v.BindPFlag("log_format", pf.Lookup("log-format"))
	_ = a.v.BindPFlag("language", pf.Lookup("lang"))
	_ = a.v.BindPFlag("output", pf.Lookup("output"))

	root.AddCommand(
		a.validateCmd(),
		a.explodeCmd(),
		a.defaultsCmd(),
		a.deriveCmd(),
		a.projectCmd(),
		a.exportCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(context.Background(), NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errValidationFailed):
		return 1
	}
	red := color.New(color.FgRed, color.Bold)
	if !logging.ColorEnabled(stderr) {
		red.DisableColor()
	}
	fmt.Fprintf(stderr, "%s %v\n", red.Sprint("error:"), err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(stderr, "hint: %s\n", hint)
	}
	return 2
}

// localFlags maps per-command flags to configuration keys.
var localFlags = map[string]string{
	"strategy":     "strategy",
	"max-variants": "max_variants",
}

func (a *app) setup(cmd *cobra.Command) error {
	for flag, key := range localFlags {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "binding --%s", flag)
			}
		}
	}
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	switch {
	case a.verbosity == 1:
		level = min(level, slog.LevelInfo)
	case a.verbosity > 1:
		level = slog.LevelDebug
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}

	lc := logging.Config{Level: level, Format: format, Output: cmd.ErrOrStderr()}
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		a.closeLog = f.Close
		lc.File = f
	}
	a.logger = logging.New(lc)
	a.logger.Debug("configuration loaded", "strategy", cfg.Strategy, "language", cfg.Language, "output", cfg.Output)
	return nil
}

// compileOptions turns the loaded configuration into formskema options.
func (a *app) compileOptions() ([]formskema.Option, error) {
	strategy, err := formskema.ParseStrategy(a.cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return []formskema.Option{
		formskema.WithStrategy(strategy),
		formskema.WithTranslator(i18n.Dictionary(a.cfg.Language)),
		formskema.WithVariantLimit(a.cfg.MaxVariants),
		formskema.WithLogger(a.logger),
	}, nil
}

func (a *app) jsonOutput() bool { return a.cfg.Output == "json" }
