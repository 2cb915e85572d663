package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/internal/config"
	"github.com/yaroslav/dpmigrate/internal/logging"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// ExitInterrupted is the exit code after SIGINT or SIGTERM.
const ExitInterrupted = 130

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	debug      bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "dpmigrate",
		Short: "Migrate APIC configuration from PANW device package 1.2 to 1.3",
		Long: `dpmigrate rewrites the service graph parameters of an APIC tenant so that
firewalls managed by the Palo Alto Networks device package 1.2 can be moved to
device package 1.3, and moves the logical device clusters across.

A migration usually runs in three steps, verifying the result in between:

  dpmigrate migrate --tenant T --app A --parameters
  dpmigrate migrate --tenant T --clusters
  dpmigrate migrate --tenant T --app A --cleanup

Until the cleanup, --revert undoes --parameters and --clusters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "",
		"Path to the YAML config file (default $HOME/.config/dpmigrate/config.yaml)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format (auto, json, console)")
	flags.BoolVarP(&g.debug, "debug", "d", false, "Debug mode: debug logs and the full payload on stdout")

	root.AddCommand(
		newMigrateCmd(g),
		newHistoryCmd(g),
		newSimCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	return exitCode(ctx, err, stderr)
}

// exitError ends the command with a specific code. Its message, if any, has
// already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitWith(code int) error {
	return &exitError{code: code}
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// loadConfig merges defaults, the config file, the environment and the
// global flags, then lets apply set command flags before validating.
func (g *globalOptions) loadConfig(needAPIC bool, apply func(*config.Config)) (config.Config, error) {
	path, explicit := g.configPath, true
	if path == "" {
		explicit = false
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if g.debug {
		cfg.Log.Level = "debug"
	}
	if apply != nil {
		apply(&cfg)
	}

	if err := cfg.Validate(needAPIC); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func initLogger(cfg config.Config) (*zap.Logger, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = logging.Format(cfg.Log.Format)
	if cfg.Log.Level == "debug" {
		logCfg.DisableCaller = false
	}

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// colorEnabled reports whether w is a terminal that should get colors.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
